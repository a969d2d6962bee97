package httpwire

import (
	"errors"
	"testing"
)

func TestParseOne(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantErr    error
		wantMethod string
		wantPath   string
		wantQuery  string
		wantBody   string
	}{
		{
			name:       "simple GET",
			raw:        "GET /hello HTTP/1.1\r\nHost: x\r\n\r\n",
			wantMethod: "GET",
			wantPath:   "/hello",
		},
		{
			name:      "query string split from path",
			raw:       "GET /p?a=1&b=2 HTTP/1.1\r\nHost: x\r\n\r\n",
			wantPath:  "/p",
			wantQuery: "a=1&b=2",
		},
		{
			name:     "body via content-length",
			raw:      "POST /p HTTP/1.1\r\nHost: x\r\nContent-Length: 5\r\n\r\nhello",
			wantBody: "hello",
		},
		{
			name:    "incomplete request line",
			raw:     "GET /p HTTP",
			wantErr: ErrIncomplete,
		},
		{
			name:    "incomplete headers",
			raw:     "GET /p HTTP/1.1\r\nHost: x\r\n",
			wantErr: ErrIncomplete,
		},
		{
			name:    "incomplete body",
			raw:     "POST /p HTTP/1.1\r\nContent-Length: 10\r\n\r\nhello",
			wantErr: ErrIncomplete,
		},
		{
			name:    "bad header line",
			raw:     "GET /p HTTP/1.1\r\nBadHeader\r\n\r\n",
			wantErr: ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, consumed, err := ParseOne([]byte(tt.raw))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want err %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if consumed != len(tt.raw) {
				t.Fatalf("consumed %d, want %d", consumed, len(tt.raw))
			}
			if tt.wantMethod != "" && req.Method != tt.wantMethod {
				t.Errorf("method = %q, want %q", req.Method, tt.wantMethod)
			}
			if tt.wantPath != "" && req.Path != tt.wantPath {
				t.Errorf("path = %q, want %q", req.Path, tt.wantPath)
			}
			if req.RawQuery != tt.wantQuery {
				t.Errorf("query = %q, want %q", req.RawQuery, tt.wantQuery)
			}
			if string(req.Body) != tt.wantBody {
				t.Errorf("body = %q, want %q", req.Body, tt.wantBody)
			}
		})
	}
}

func TestParseOneLeavesPipelinedBytes(t *testing.T) {
	raw := "GET /a HTTP/1.1\r\n\r\nGET /b HTTP/1.1\r\n\r\n"
	req, consumed, err := ParseOne([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Path != "/a" {
		t.Fatalf("path = %q, want /a", req.Path)
	}
	rem := raw[consumed:]
	req2, _, err := ParseOne([]byte(rem))
	if err != nil {
		t.Fatalf("unexpected error parsing remainder: %v", err)
	}
	if req2.Path != "/b" {
		t.Fatalf("path = %q, want /b", req2.Path)
	}
}
