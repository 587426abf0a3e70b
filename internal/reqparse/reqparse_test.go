package reqparse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFile_KeepsBasePath(t *testing.T) {
	content := "GET /rest/v1/ HTTP/1.1\r\n" +
		"Host: project.supabase.co\r\n" +
		"apikey: eyJhbGciOi.example\r\n" +
		"Authorization: Bearer eyJhbGciOi.example\r\n" +
		"\r\n"

	path := writeTempFile(t, content)
	req, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if req.URL != "https://project.supabase.co/rest/v1" {
		t.Errorf("url = %q, want https://project.supabase.co/rest/v1", req.URL)
	}
	if req.Headers["apikey"] != "eyJhbGciOi.example" {
		t.Errorf("apikey = %q, want 'eyJhbGciOi.example'", req.Headers["apikey"])
	}
	if req.Headers["Authorization"] != "Bearer eyJhbGciOi.example" {
		t.Errorf("auth = %q, want 'Bearer eyJhbGciOi.example'", req.Headers["Authorization"])
	}
}

func TestParseFile_FullURLRequestLine(t *testing.T) {
	content := "GET https://api.example.com/rest/v1/users HTTP/1.1\r\n" +
		"Host: api.example.com\r\n" +
		"\r\n"

	path := writeTempFile(t, content)
	req, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if req.URL != "https://api.example.com/rest/v1/users" {
		t.Errorf("url = %q, want https://api.example.com/rest/v1/users", req.URL)
	}
}

func TestParseFile_Port80(t *testing.T) {
	content := "GET / HTTP/1.1\r\n" +
		"Host: target.com:80\r\n" +
		"\r\n"

	path := writeTempFile(t, content)
	req, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if req.URL != "http://target.com:80" {
		t.Errorf("url = %q, want http://target.com:80", req.URL)
	}
}

func TestParseFile_MissingHost(t *testing.T) {
	content := "GET / HTTP/1.1\r\n" +
		"Accept: */*\r\n" +
		"\r\n"

	path := writeTempFile(t, content)
	_, err := ParseFile(path)
	if err == nil {
		t.Error("expected error for missing Host header")
	}
}

func TestParseFile_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "")
	_, err := ParseFile(path)
	if err == nil {
		t.Error("expected error for empty file")
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
