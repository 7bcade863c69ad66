package api

import (
	"strings"
	"testing"
)

func TestParseResponse_TreeAndForceArray(t *testing.T) {
	t.Parallel()

	body := `<?xml version="1.0" encoding="UTF-8"?>
<rsp stat="ok">
  <lists>
    <list id="100" name="Inbox"/>
  </lists>
</rsp>`

	resp, err := ParseResponse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if resp.Status() != "ok" {
		t.Fatalf("Status = %q, want ok", resp.Status())
	}

	lists := resp.First("lists")
	if lists == nil {
		t.Fatalf("First(lists) = nil, want node")
	}
	// A single element still comes back as a sequence.
	got := lists.All("list")
	if len(got) != 1 {
		t.Fatalf("All(list) = %d nodes, want 1", len(got))
	}
	if got[0].Attr("id") != "100" || got[0].Attr("name") != "Inbox" {
		t.Fatalf("list attrs = %v, want id=100 name=Inbox", got[0].Attrs)
	}
}

func TestParseResponse_RepeatedElements(t *testing.T) {
	t.Parallel()

	body := `<rsp stat="ok"><lists><list id="1"/><list id="2"/><list id="3"/></lists></rsp>`
	resp, err := ParseResponse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	got := resp.First("lists").All("list")
	if len(got) != 3 {
		t.Fatalf("All(list) = %d nodes, want 3", len(got))
	}
	for i, want := range []string{"1", "2", "3"} {
		if got[i].Attr("id") != want {
			t.Fatalf("list[%d] id = %q, want %q", i, got[i].Attr("id"), want)
		}
	}
}

func TestParseResponse_TextAndMissingChildren(t *testing.T) {
	t.Parallel()

	body := `<rsp stat="ok"><timeline> 12741021 </timeline></rsp>`
	resp, err := ParseResponse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if resp.ChildText("timeline") != "12741021" {
		t.Fatalf("ChildText(timeline) = %q, want 12741021", resp.ChildText("timeline"))
	}
	if resp.First("missing") != nil {
		t.Fatalf("First(missing) = %v, want nil", resp.First("missing"))
	}
	if resp.ChildText("missing") != "" {
		t.Fatalf("ChildText(missing) = %q, want empty", resp.ChildText("missing"))
	}
	if got := resp.All("missing"); len(got) != 0 {
		t.Fatalf("All(missing) = %v, want empty", got)
	}
}

func TestResponse_ErrAndTransaction(t *testing.T) {
	t.Parallel()

	resp, err := ParseResponse(strings.NewReader(
		`<rsp stat="fail"><err code="98" msg="Login failed / Invalid auth token"/></rsp>`))
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	se := resp.Err()
	if se == nil {
		t.Fatalf("Err() = nil, want service error")
	}
	if se.Code != "98" || se.Error() != "98: Login failed / Invalid auth token" {
		t.Fatalf("service error = %q, want 98: Login failed / Invalid auth token", se.Error())
	}

	resp, err = ParseResponse(strings.NewReader(
		`<rsp stat="ok"><transaction id="123" undoable="1"/></rsp>`))
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if resp.Err() != nil {
		t.Fatalf("Err() = %v, want nil", resp.Err())
	}
	id, undoable := resp.Transaction()
	if id != "123" || !undoable {
		t.Fatalf("Transaction = (%q, %v), want (123, true)", id, undoable)
	}

	resp, err = ParseResponse(strings.NewReader(
		`<rsp stat="ok"><transaction id="124" undoable="0"/></rsp>`))
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if id, undoable := resp.Transaction(); id != "124" || undoable {
		t.Fatalf("Transaction = (%q, %v), want (124, false)", id, undoable)
	}
}

func TestParseResponse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"not xml", "plainly not xml <"},
		{"truncated", `<rsp stat="ok"><auth>`},
		{"wrong root", `<html><body>gateway error</body></html>`},
		{"empty", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseResponse(strings.NewReader(tt.body)); err == nil {
				t.Fatalf("ParseResponse(%q) returned nil error, want parse error", tt.body)
			}
		})
	}
}
