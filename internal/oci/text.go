package oci

// cString trims buf at the first NUL byte and any trailing newline that
// OCIErrorGet appends to its messages.
func cString(buf []byte) string {
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	for n > 0 && (buf[n-1] == '\n' || buf[n-1] == '\r') {
		n--
	}
	return string(buf[:n])
}
