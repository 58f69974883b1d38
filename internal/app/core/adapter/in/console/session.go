// Package console 是文字介面的 ATM 模擬器：逐行讀取指令，透過 CoreUseCase 執行並輸出結果。
//
// 同一時間只有一位客戶登入；帳本本身由 usecase.Ledger 持有。
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/JoeShih716/go-debt-atm/internal/app/core/domain"
	"github.com/JoeShih716/go-debt-atm/internal/app/core/usecase"
)

const (
	commandErrorMessage = "The command you entered is not recognized.\n" +
		"Please enter a valid command or press CTRL + C to stop the program."
	loginErrorMessage = "You are logged in with the %s account.\n" +
		"Please perform other banking activities or log out to use a different account."
	loginRequiredMessage = "You are not logged in.\n" +
		"Please login to perform %s activity."

	welcomeMessage = "Hello, %s!"
	goodbyeMessage = "Goodbye, %s!"

	balanceMessage     = "Your balance is $%d."
	owedToMessage      = "Owed $%d to %s"
	owedFromMessage    = "Owed $%d from %s"
	transferredMessage = "Transferred $%d to %s"

	depositAmountError      = "The amount you entered to deposit is not valid."
	withdrawAmountError     = "The amount you entered to withdraw is not valid."
	transferAmountError     = "The amount you entered to transfer is not valid."
	insufficientBalance     = "Your balance is insufficient. ($%d)"
	transferAccountNotFound = "The account you want to transfer to was not found."
	sameAccountMessage      = "You cannot transfer to your own account."
)

// command 指令規格
type command struct {
	// arity 含指令本身的欄位數
	arity        int
	requireLogin bool
	action       func(ctx context.Context, args []string) error
}

// Session 一個 console 工作階段
type Session struct {
	core     *usecase.CoreUseCase
	out      io.Writer
	logger   *log.Logger
	current  string
	commands map[string]command
}

func NewSession(core *usecase.CoreUseCase, out io.Writer, logger *log.Logger) *Session {
	s := &Session{
		core:   core,
		out:    out,
		logger: logger,
	}
	s.commands = map[string]command{
		"login":    {arity: 2, requireLogin: false, action: s.login},
		"logout":   {arity: 1, requireLogin: true, action: s.logout},
		"deposit":  {arity: 2, requireLogin: true, action: s.deposit},
		"withdraw": {arity: 2, requireLogin: true, action: s.withdraw},
		"transfer": {arity: 3, requireLogin: true, action: s.transfer},
	}
	return s
}

// Current 目前登入的客戶，未登入時為空字串
func (s *Session) Current() string {
	return s.current
}

// Run 逐行執行指令直到輸入結束或 ctx 結束
//
// 參數:
//
//	ctx: 取消或逾時即結束 session
//	in: 指令來源 (通常是 os.Stdin)
//
// 回傳:
//
//	error: 輸入結束時為 nil；ctx 結束時為 ctx.Err()；帳本無法服務時為該錯誤
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	// 提前返回時讓讀取 goroutine 跟著結束
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	// 讀取會阻塞，放到另一個 goroutine 才能同時等待 ctx
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session ended", "reason", ctx.Err())
			return ctx.Err()
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		case line := <-lines:
			if err := s.Execute(ctx, line); err != nil {
				return err
			}
		}
	}
}

// Execute 執行一行指令
// 業務錯誤直接輸出給客戶，只有帳本無法服務時才回傳 error
func (s *Session) Execute(ctx context.Context, line string) error {
	input := strings.Split(strings.TrimSuffix(line, "\r"), " ")
	name := input[0]
	cmd, ok := s.commands[name]

	switch {
	case !ok || len(input) != cmd.arity:
		s.println(commandErrorMessage)
		return nil
	case cmd.requireLogin && s.current == "":
		s.printf(loginRequiredMessage, name)
		return nil
	case !cmd.requireLogin && s.current != "":
		s.printf(loginErrorMessage, s.current)
		return nil
	}

	s.logger.Debug("command", "name", name, "customer", s.current)
	return cmd.action(ctx, input)
}

func (s *Session) login(ctx context.Context, args []string) error {
	res, err := s.core.Login(ctx, args[1])
	if err != nil {
		if errors.Is(err, domain.ErrInvalidName) {
			s.println(commandErrorMessage)
			return nil
		}
		return err
	}
	s.current = args[1]
	s.printf(welcomeMessage, s.current)
	s.printAccount(res.Account)
	return nil
}

func (s *Session) logout(_ context.Context, _ []string) error {
	s.printf(goodbyeMessage, s.current)
	s.current = ""
	return nil
}

func (s *Session) deposit(ctx context.Context, args []string) error {
	amount, ok := parseAmount(args[1])
	if !ok || amount <= 0 {
		s.println(depositAmountError)
		return nil
	}
	res, err := s.core.Deposit(ctx, s.current, amount)
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		// 入帳後會超過金額上限
		s.println(depositAmountError)
		return nil
	case err != nil:
		return err
	}
	for _, st := range res.Settlements {
		s.printf(transferredMessage, st.Amount, st.Counterparty)
	}
	s.printAccount(res.Account)
	return nil
}

func (s *Session) withdraw(ctx context.Context, args []string) error {
	amount, ok := parseAmount(args[1])
	if !ok || amount <= 0 {
		s.println(withdrawAmountError)
		return nil
	}
	res, err := s.core.Withdraw(ctx, s.current, amount)
	if err != nil {
		var insufficient *domain.InsufficientBalanceError
		if errors.As(err, &insufficient) {
			s.printf(insufficientBalance, insufficient.Balance)
			return nil
		}
		return err
	}
	s.printAccount(res.Account)
	return nil
}

// transfer 先確認收款帳戶存在，再檢查金額
func (s *Session) transfer(ctx context.Context, args []string) error {
	target := args[1]
	if _, err := s.core.GetAccount(ctx, target); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.println(transferAccountNotFound)
			return nil
		}
		return err
	}
	amount, ok := parseAmount(args[2])
	if !ok || amount < 0 {
		s.println(transferAmountError)
		return nil
	}

	res, err := s.core.Transfer(ctx, s.current, target, amount)
	switch {
	case errors.Is(err, domain.ErrSameAccount):
		s.println(sameAccountMessage)
		return nil
	case errors.Is(err, domain.ErrInvalidAmount):
		s.println(transferAmountError)
		return nil
	case err != nil:
		return err
	}
	if res.Transferred != 0 {
		s.printf(transferredMessage, res.Transferred, target)
	}
	s.printAccount(res.Account)
	return nil
}

func (s *Session) printAccount(acc domain.AccountSnapshot) {
	s.printf(balanceMessage, acc.Balance)
	for _, d := range acc.Debts {
		s.printf(owedToMessage, d.Amount, d.Name)
	}
	for _, r := range acc.Receivables {
		s.printf(owedFromMessage, r.Amount, r.Name)
	}
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

func (s *Session) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func parseAmount(raw string) (int64, bool) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
