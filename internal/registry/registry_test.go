package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

func newTestRegistry() *Registry {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func echoTool(name string) tool.Definition {
	return tool.Definition{
		Name: name,
		Schema: tool.Schema{Params: []tool.Param{
			{Name: "msg", Type: tool.TypeString, Required: true},
		}},
		Handler: func(_ context.Context, args map[string]any) (map[string]any, error) {
			return tool.Ok(map[string]any{"msg": args["msg"]}), nil
		},
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := newTestRegistry()
	if err := r.Register(echoTool("echo")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register(echoTool("echo")); err == nil {
		t.Fatal("duplicate register succeeded")
	}
}

func TestRegisterInvalid(t *testing.T) {
	r := newTestRegistry()
	if err := r.Register(tool.Definition{Name: ""}); err == nil {
		t.Error("register without name succeeded")
	}
	if err := r.Register(tool.Definition{Name: "x"}); err == nil {
		t.Error("register without handler succeeded")
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Dispatch(context.Background(), "nope", nil)
	var nf *tool.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nf.Tool != "nope" {
		t.Errorf("Tool = %q, want nope", nf.Tool)
	}
}

func TestDispatchValidatesArgs(t *testing.T) {
	r := newTestRegistry()
	r.MustRegister(echoTool("echo"))

	_, err := r.Dispatch(context.Background(), "echo", map[string]any{})
	var ve *tool.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	result, err := r.Dispatch(context.Background(), "echo", map[string]any{"msg": "hi"})
	if err != nil {
		t.Fatalf("valid dispatch: %v", err)
	}
	if result["msg"] != "hi" {
		t.Errorf("result = %v, want msg=hi", result)
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	r := newTestRegistry()
	r.MustRegister(tool.Definition{
		Name: "boom",
		Handler: func(context.Context, map[string]any) (map[string]any, error) {
			panic("kaboom")
		},
	})

	_, err := r.Dispatch(context.Background(), "boom", nil)
	var ee *tool.ExecutionError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v, want ExecutionError", err)
	}
}

func TestDispatchWrapsUntypedErrors(t *testing.T) {
	r := newTestRegistry()
	plain := errors.New("plain failure")
	r.MustRegister(tool.Definition{
		Name: "fail",
		Handler: func(context.Context, map[string]any) (map[string]any, error) {
			return nil, plain
		},
	})
	r.MustRegister(tool.Definition{
		Name: "policy",
		Handler: func(context.Context, map[string]any) (map[string]any, error) {
			return nil, &tool.PolicyViolationError{Reason: "blocked"}
		},
	})

	_, err := r.Dispatch(context.Background(), "fail", nil)
	var ee *tool.ExecutionError
	if !errors.As(err, &ee) {
		t.Fatalf("untyped err = %v, want ExecutionError wrapper", err)
	}
	if !errors.Is(err, plain) {
		t.Error("wrapped error lost the original cause")
	}

	_, err = r.Dispatch(context.Background(), "policy", nil)
	var pv *tool.PolicyViolationError
	if !errors.As(err, &pv) {
		t.Fatalf("typed err = %v, want PolicyViolationError passthrough", err)
	}
}

func TestDefinitionsSorted(t *testing.T) {
	r := newTestRegistry()
	r.MustRegister(echoTool("zeta"), echoTool("alpha"), echoTool("mid"))

	defs := r.Definitions()
	if len(defs) != 3 {
		t.Fatalf("len = %d, want 3", len(defs))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if defs[i].Name != want {
			t.Errorf("defs[%d] = %q, want %q", i, defs[i].Name, want)
		}
	}
}
