package fsevents

import "testing"

func TestOp_String(t *testing.T) {
	cases := []struct {
		op   Op
		want string
	}{
		{0, "NONE"},
		{Write, "WRITE"},
		{Write | Create, "WRITE|CREATE"},
		{Rename, "RENAME"},
	}
	for _, c := range cases {
		if got := c.op.String(); got != c.want {
			t.Errorf("Op(%d).String() = %q, want %q", c.op, got, c.want)
		}
	}
}

func TestOp_Has(t *testing.T) {
	op := Write | Remove
	if !op.Has(Write) {
		t.Error("expected Has(Write)")
	}
	if op.Has(Create) {
		t.Error("did not expect Has(Create)")
	}
}

func TestEvent_StringIncludesCookie(t *testing.T) {
	cookie := uint32(42)
	e := Event{Path: "/tmp/a", Op: Rename, Cookie: &cookie}
	got := e.String()
	if got != "RENAME /tmp/a (cookie=42)" {
		t.Errorf("got %q", got)
	}
}

func TestEvent_StringWithoutCookie(t *testing.T) {
	e := Event{Path: "/tmp/a", Op: Write}
	got := e.String()
	if got != "WRITE /tmp/a" {
		t.Errorf("got %q", got)
	}
}

func TestSourceError_Unwrap(t *testing.T) {
	inner := &SourceError{Kind: ErrPathNotFound, Err: errTest{}}
	if inner.Unwrap() == nil {
		t.Error("expected non-nil unwrap")
	}
}

type errTest struct{}

func (errTest) Error() string { return "test error" }
