package console

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Orders(ctx context.Context) error {
	f.calls = append(f.calls, "orders")
	return nil
}
func (f *fakeExec) Show(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "show")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Reveal(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "reveal")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Clear(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "clear")
	return nil
}
func (f *fakeExec) Status(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "status")
	return nil
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "delete")
	return nil
}
func (f *fakeExec) Passwd(ctx context.Context) error {
	f.calls = append(f.calls, "passwd")
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"orders",
		"show order_1",
		"reveal order_1 cvv",
		"status order_1 shipped",
		"foobar",
		"logout",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	want := []string{"login", "orders", "show", "reveal", "status", "logout"}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
	for i := range want {
		if exec.calls[i] != want[i] {
			t.Fatalf("call %d: got %q, want %q", i, exec.calls[i], want[i])
		}
	}

	if got := exec.args[0]; len(got) != 1 || got[0] != "order_1" {
		t.Fatalf("show args: %v", got)
	}
	if got := exec.args[1]; len(got) != 2 || got[1] != "cvv" {
		t.Fatalf("reveal args: %v", got)
	}
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("")))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
