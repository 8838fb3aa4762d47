package termidxd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net"
	"strings"
	"testing"
)

func TestReadOneLineSkipsBlanks(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\n\n{\"a\":1}\n"))
	line, err := ReadOneLine(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(line) != `{"a":1}` {
		t.Fatalf("line = %q", line)
	}
}

func TestReadOneLineWithoutTrailingNewline(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(`{"a":1}`))
	line, err := ReadOneLine(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(line) != `{"a":1}` {
		t.Fatalf("line = %q", line)
	}

	if _, err := ReadOneLine(r); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestWriteOneLineAppendsNewline(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOneLine(&buf, map[string]int{"a": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "{\"a\":1}\n" {
		t.Fatalf("wrote %q", got)
	}
}

func TestServerRejectsMalformedJSON(t *testing.T) {
	s, _ := startTestServer(t)

	conn, err := net.Dial("tcp", s.Addr())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("{not json\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	line, err := ReadOneLine(bufio.NewReader(conn))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var resp struct {
		Error *ErrorObject `json:"error"`
	}
	if err := json.Unmarshal(line, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != -32700 {
		t.Fatalf("response = %s", line)
	}
}
