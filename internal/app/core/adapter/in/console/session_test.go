package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/JoeShih716/go-debt-atm/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-debt-atm/internal/app/core/domain"
	"github.com/JoeShih716/go-debt-atm/internal/app/core/usecase"
	"github.com/JoeShih716/go-debt-atm/pkg/logger"
)

func newSession() (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	core := usecase.NewCoreUseCase(memory.NewMutexLedger())
	return NewSession(core, &out, logger.Discard()), &out
}

// run 依序執行指令，回傳最後一個指令的輸出
func run(t *testing.T, s *Session, out *bytes.Buffer, lines ...string) string {
	t.Helper()
	for _, line := range lines {
		out.Reset()
		if err := s.Execute(context.Background(), line); err != nil {
			t.Fatalf("Execute(%q) err=%v", line, err)
		}
	}
	return out.String()
}

// assertInOrder 檢查每段文字依序出現在 output 中
func assertInOrder(t *testing.T, output string, expected []string) {
	t.Helper()
	last := 0
	for _, want := range expected {
		idx := strings.Index(output[last:], want)
		if idx < 0 {
			t.Fatalf("expected output not found after offset %d: %q\noutput:\n%s", last, want, output)
		}
		last += idx + len(want)
	}
}

func TestRunReferenceSession(t *testing.T) {
	s, out := newSession()
	input := strings.Join([]string{
		"login Alice",
		"deposit 100",
		"logout",
		"login Bob",
		"deposit 80",
		"transfer Alice 50",
		"transfer Alice 100",
		"deposit 30",
		"logout",
		"login Alice",
		"deposit 30",
		"transfer Bob 30",
		"logout",
		"login Bob",
		"deposit 100",
		"logout",
	}, "\n")

	if err := s.Run(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatal(err)
	}

	assertInOrder(t, out.String(), []string{
		"Hello, Alice!",
		"Your balance is $0.",
		"Your balance is $100.",
		"Goodbye, Alice!",
		"Hello, Bob!",
		"Your balance is $0.",
		"Your balance is $80.",
		"Transferred $50 to Alice",
		"Your balance is $30.",
		"Transferred $30 to Alice",
		"Your balance is $0.",
		"Owed $70 to Alice",
		"Transferred $30 to Alice",
		"Your balance is $0.",
		"Owed $40 to Alice",
		"Goodbye, Bob!",
		"Hello, Alice!",
		"Your balance is $180.",
		"Owed $40 from Bob",
		"Your balance is $210.",
		"Owed $40 from Bob",
		"Your balance is $210.",
		"Owed $10 from Bob",
		"Goodbye, Alice!",
		"Hello, Bob!",
		"Your balance is $0.",
		"Owed $10 to Alice",
		"Transferred $10 to Alice",
		"Your balance is $90.",
		"Goodbye, Bob!",
	})
	if s.Current() != "" {
		t.Fatalf("current=%q want logged out", s.Current())
	}
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name    string
		setup   []string
		line    string
		want    []string
		notWant string
	}{
		{name: "empty input", line: "", want: []string{"The command you entered is not recognized"}},
		{name: "unknown command", line: "masuk adi", want: []string{"The command you entered is not recognized"}},
		{name: "wrong arity", line: "login", want: []string{"The command you entered is not recognized"}},
		{name: "double space", line: "login  Adi", want: []string{"The command you entered is not recognized"}},
		{name: "empty name", line: "login ", want: []string{"The command you entered is not recognized"}},
		{
			name: "require login",
			line: "deposit 100",
			want: []string{"You are not logged in.", "Please login to perform deposit activity."},
		},
		{
			name: "logout without login",
			line: "logout",
			want: []string{"You are not logged in.", "Please login to perform logout activity."},
		},
		{
			name:  "already logged in",
			setup: []string{"login Adi"},
			line:  "login Alice",
			want:  []string{"You are logged in with the Adi account."},
		},
		{name: "login new customer", line: "login Adi", want: []string{"Hello, Adi!", "Your balance is $0."}},
		{
			name:  "login old customer",
			setup: []string{"login Adi", "deposit 100", "logout"},
			line:  "login Adi",
			want:  []string{"Hello, Adi!", "Your balance is $100."},
		},
		{
			name:  "withdraw invalid amount",
			setup: []string{"login Adi"},
			line:  "withdraw blah",
			want:  []string{"The amount you entered to withdraw is not valid."},
		},
		{
			name:  "withdraw insufficient",
			setup: []string{"login Adi"},
			line:  "withdraw 1000",
			want:  []string{"Your balance is insufficient. ($0)"},
		},
		{
			name:  "withdraw success",
			setup: []string{"login Adi", "deposit 1000"},
			line:  "withdraw 100",
			want:  []string{"Your balance is $900."},
		},
		{
			name:  "deposit invalid amount",
			setup: []string{"login Alice"},
			line:  "deposit goceng",
			want:  []string{"The amount you entered to deposit is not valid."},
		},
		{
			name:  "deposit zero",
			setup: []string{"login Alice"},
			line:  "deposit 0",
			want:  []string{"The amount you entered to deposit is not valid."},
		},
		{
			name:    "deposit beyond max balance",
			setup:   []string{"login Alice", "deposit 9223372036854775807"},
			line:    "deposit 1",
			want:    []string{"The amount you entered to deposit is not valid."},
			notWant: "-9223372036854775808",
		},
		{
			name:  "transfer beyond max balance",
			setup: []string{"login Adi", "deposit 9223372036854775807", "logout", "login Alice", "deposit 1"},
			line:  "transfer Adi 1",
			want:  []string{"The amount you entered to transfer is not valid."},
		},
		{
			name:  "deposit pays debt first",
			setup: []string{"login Bob", "logout", "login Alice", "deposit 50", "transfer Bob 100"},
			line:  "deposit 150",
			want:  []string{"Transferred $50 to Bob", "Your balance is $100."},
		},
		{
			name:  "deposit without debt",
			setup: []string{"login Alice"},
			line:  "deposit 50",
			want:  []string{"Your balance is $50."},
		},
		{
			name:  "transfer target not found",
			setup: []string{"login Alice"},
			line:  "transfer Adi 50",
			want:  []string{"The account you want to transfer to was not found."},
		},
		{
			name:  "transfer target checked before amount",
			setup: []string{"login Alice"},
			line:  "transfer Adi gocap",
			want:  []string{"The account you want to transfer to was not found."},
		},
		{
			name:  "transfer invalid amount",
			setup: []string{"login Adi", "logout", "login Alice"},
			line:  "transfer Adi gocap",
			want:  []string{"The amount you entered to transfer is not valid."},
		},
		{
			name:  "transfer negative amount",
			setup: []string{"login Adi", "logout", "login Alice"},
			line:  "transfer Adi -1",
			want:  []string{"The amount you entered to transfer is not valid."},
		},
		{
			name:    "transfer zero",
			setup:   []string{"login Adi", "logout", "login Alice", "deposit 5"},
			line:    "transfer Adi 0",
			want:    []string{"Your balance is $5."},
			notWant: "Transferred",
		},
		{
			name:  "transfer to self",
			setup: []string{"login Alice"},
			line:  "transfer Alice 10",
			want:  []string{"You cannot transfer to your own account."},
		},
		{
			name:  "transfer with shortfall",
			setup: []string{"login Adi", "logout", "login Alice", "deposit 50"},
			line:  "transfer Adi 60",
			want:  []string{"Transferred $50 to Adi", "Your balance is $0.", "Owed $10 to Adi"},
		},
		{
			name:    "transfer without shortfall",
			setup:   []string{"login Adi", "logout", "login Alice", "deposit 50"},
			line:    "transfer Adi 50",
			want:    []string{"Transferred $50 to Adi", "Your balance is $0."},
			notWant: "Owed",
		},
		{
			name:  "logout",
			setup: []string{"login Adi"},
			line:  "logout",
			want:  []string{"Goodbye, Adi!"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out := newSession()
			got := run(t, s, out, append(tt.setup, tt.line)...)
			assertInOrder(t, got, tt.want)
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Fatalf("output should not contain %q:\n%s", tt.notWant, got)
			}
		})
	}
}

func TestRunStopsOnContext(t *testing.T) {
	s, _ := newSession()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// pipe 永遠不會有輸入
	r, w := io.Pipe()
	defer w.Close()

	if err := s.Run(ctx, r); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v want=DeadlineExceeded", err)
	}
}

func TestRunReturnsLedgerErrors(t *testing.T) {
	var out bytes.Buffer
	ledger := memory.NewLMAXLedger(4)
	ctx, cancel := context.WithCancel(context.Background())
	ledger.Start(ctx)
	cancel()
	<-ledger.Done()

	s := NewSession(usecase.NewCoreUseCase(ledger), &out, logger.Discard())
	err := s.Run(context.Background(), strings.NewReader("login Alice\n"))
	if !errors.Is(err, domain.ErrLedgerStopped) {
		t.Fatalf("err=%v want ledger stopped", err)
	}
}
