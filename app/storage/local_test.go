package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	st, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	return st
}

func TestLocalStorage_WriteReadJSON_Object(t *testing.T) {
	st := newTestStorage(t)

	record := map[string]string{"title": "X", "link": "http://x"}
	if err := st.WriteJSON([]string{"one.json"}, record); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	raws, err := st.ReadJSON([]string{"one.json"})
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	// A single object reads back as a one-element sequence.
	if len(raws) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(raws))
	}

	var decoded map[string]string
	if err := json.Unmarshal(raws[0], &decoded); err != nil {
		t.Fatalf("Failed to decode record: %v", err)
	}
	if decoded["title"] != "X" {
		t.Errorf("Expected title 'X', got %q", decoded["title"])
	}
}

func TestLocalStorage_WriteReadJSON_Array(t *testing.T) {
	st := newTestStorage(t)

	records := []map[string]int{{"a": 1}, {"a": 2}, {"a": 3}}
	if err := st.WriteJSON([]string{"many.json"}, records); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	raws, err := st.ReadJSON([]string{"many.json"})
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if len(raws) != 3 {
		t.Errorf("Expected 3 records, got %d", len(raws))
	}
}

func TestLocalStorage_WriteJSON_PreserializedString(t *testing.T) {
	st := newTestStorage(t)

	if err := st.WriteJSON([]string{"raw.json"}, `{"already": "json"}`); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	raws, err := st.ReadJSON([]string{"raw.json"})
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if len(raws) != 1 {
		t.Errorf("Expected 1 record, got %d", len(raws))
	}
}

func TestLocalStorage_WriteJSON_UnsupportedType(t *testing.T) {
	st := newTestStorage(t)

	err := st.WriteJSON([]string{"bad.json"}, make(chan int))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Expected ErrUnsupportedType, got %v", err)
	}
}

func TestLocalStorage_ReadJSON_NotFound(t *testing.T) {
	st := newTestStorage(t)

	_, err := st.ReadJSON([]string{"missing.json"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLocalStorage_ReadJSON_Malformed(t *testing.T) {
	st := newTestStorage(t)

	if err := st.WriteText([]string{"broken.json"}, "{not json"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if _, err := st.ReadJSON([]string{"broken.json"}); !errors.Is(err, ErrMalformedData) {
		t.Errorf("Expected ErrMalformedData, got %v", err)
	}

	// A bare scalar is also not an acceptable shape.
	if err := st.WriteText([]string{"scalar.json"}, "42"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if _, err := st.ReadJSON([]string{"scalar.json"}); !errors.Is(err, ErrMalformedData) {
		t.Errorf("Expected ErrMalformedData for scalar, got %v", err)
	}
}

func TestLocalStorage_WriteJSON_Overwrites(t *testing.T) {
	st := newTestStorage(t)

	if err := st.WriteJSON([]string{"v.json"}, []int{1, 2, 3}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if err := st.WriteJSON([]string{"v.json"}, []int{9}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	raws, err := st.ReadJSON([]string{"v.json"})
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if len(raws) != 1 {
		t.Errorf("Expected full overwrite leaving 1 record, got %d", len(raws))
	}
}

func TestLocalStorage_Make(t *testing.T) {
	st := newTestStorage(t)

	if err := st.Make([]string{"20240118", "14"}, false); err != nil {
		t.Fatalf("Make failed: %v", err)
	}
	if !st.Exists([]string{"20240118", "14"}) {
		t.Error("Expected created directory to exist")
	}

	if err := st.Make([]string{"20240118", "14"}, false); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
	if err := st.Make([]string{"20240118", "14"}, true); err != nil {
		t.Errorf("Expected existOK Make to succeed, got %v", err)
	}
}

func TestLocalStorage_AppendSession(t *testing.T) {
	st := newTestStorage(t)

	if err := st.OpenAppend([]string{"journal.nlj"}); err != nil {
		t.Fatalf("OpenAppend failed: %v", err)
	}
	if err := st.OpenAppend([]string{"other.nlj"}); !errors.Is(err, ErrSessionOpen) {
		t.Errorf("Expected ErrSessionOpen on second open, got %v", err)
	}

	if err := st.AppendLine(map[string]int{"n": 1}); err != nil {
		t.Fatalf("AppendLine failed: %v", err)
	}
	if err := st.AppendLine(map[string]int{"n": 2}); err != nil {
		t.Fatalf("AppendLine failed: %v", err)
	}
	if err := st.CloseAppend(); err != nil {
		t.Fatalf("CloseAppend failed: %v", err)
	}
	// Closing an already-closed session is a harmless no-op.
	if err := st.CloseAppend(); err != nil {
		t.Errorf("Expected second CloseAppend to be a no-op, got %v", err)
	}

	data, err := os.ReadFile(filepath.Join(st.base, "journal.nlj"))
	if err != nil {
		t.Fatalf("Failed to read journal: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 NLJSON lines, got %d", len(lines))
	}
	for n, line := range lines {
		var record map[string]int
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Errorf("Line %d is not valid JSON: %v", n, err)
		}
	}
}

func TestLocalStorage_AppendLine_NoSession(t *testing.T) {
	st := newTestStorage(t)

	if err := st.AppendLine("x"); err == nil {
		t.Error("Expected error appending without an open session")
	}
}

func TestLocalStorage_List_WildcardOrder(t *testing.T) {
	st := newTestStorage(t)

	buckets := [][]string{
		{"20240119", "08"},
		{"20240118", "14"},
		{"20240118", "09"},
	}
	for _, b := range buckets {
		if err := st.Make(b, false); err != nil {
			t.Fatalf("Make failed: %v", err)
		}
		if err := st.WriteJSON(append(b, "items.json"), []int{}); err != nil {
			t.Fatalf("WriteJSON failed: %v", err)
		}
	}
	// A file outside the pattern shape must not match.
	if err := st.WriteJSON([]string{"filter.json"}, []int{}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	paths, err := st.List([]string{"*", "*", "items.json"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(paths))
	}

	expected := [][]string{
		{"20240118", "09", "items.json"},
		{"20240118", "14", "items.json"},
		{"20240119", "08", "items.json"},
	}
	for n := range expected {
		if strings.Join(paths[n], "/") != strings.Join(expected[n], "/") {
			t.Errorf("Position %d: expected %v, got %v", n, expected[n], paths[n])
		}
	}
}

func TestLocalStorage_RemoveTree(t *testing.T) {
	st := newTestStorage(t)

	if err := st.Make([]string{"20240118", "14"}, false); err != nil {
		t.Fatalf("Make failed: %v", err)
	}
	if err := st.WriteJSON([]string{"20240118", "14", "items.json"}, []int{1}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	if err := st.RemoveTree([]string{"20240118"}); err != nil {
		t.Fatalf("RemoveTree failed: %v", err)
	}
	if st.Exists([]string{"20240118"}) {
		t.Error("Expected tree to be gone")
	}
}

func TestDetectEnvironment(t *testing.T) {
	t.Setenv("DOCKETWATCH_ENV", "")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	if env := DetectEnvironment(); env != EnvLocal {
		t.Errorf("Expected local environment, got %q", env)
	}

	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "docketwatch-reader")
	if env := DetectEnvironment(); env != EnvAWS {
		t.Errorf("Expected aws environment under Lambda, got %q", env)
	}

	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	t.Setenv("DOCKETWATCH_ENV", "aws")
	if env := DetectEnvironment(); env != EnvAWS {
		t.Errorf("Expected aws environment from override, got %q", env)
	}
}
