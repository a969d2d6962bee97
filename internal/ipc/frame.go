package ipc

import "net"

// readMessage treats one complete Read from conn as one full reply
// message: there is no length prefix or delimiter on the wire, so a
// single Read syscall's worth of bytes is taken to be the entire
// rendered body. This is option (b) from the transport's documented
// open issue — buffering across multiple worker writes into one message
// is deliberately not attempted, matching the worker's own one-write
// per-reply behavior.
func readMessage(conn net.Conn) ([]byte, error) {
	buf := make([]byte, 64*1024)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}
