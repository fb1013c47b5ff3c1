package doctor

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"keynotes/clipboard"
	"keynotes/keyboard"
	"keynotes/keymap"
)

const keyTimeout = 10 * time.Second

type check struct {
	name string
	run  func() bool
}

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(addr string) int {
	fmt.Println("keynotes doctor - interactive system diagnostics")
	fmt.Println("================================================")

	checks := []check{
		{"Keyboard capture", checkKeyboard},
		{"HTTP bind " + addr, func() bool { return checkBindAddress(addr) }},
		{"Clipboard", checkClipboard},
	}

	results := make([]bool, len(checks))
	allPass := true
	for i, c := range checks {
		fmt.Println()
		fmt.Printf("[%d/%d] %s\n", i+1, len(checks), c.name)
		results[i] = c.run()
		if !results[i] {
			allPass = false
		}
	}

	fmt.Println()
	fmt.Println(summary(checks, results))
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func summary(checks []check, results []bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Check", "Result"})
	for i, c := range checks {
		result := "PASS"
		if !results[i] {
			result = "FAIL"
		}
		tw.AppendRow(table.Row{i + 1, c.name, result})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignLeft},
	})
	return tw.Render()
}

func checkKeyboard() bool {
	msg, err := keyboard.Diagnose()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  %s\n", msg)

	src := keyboard.New()
	if err := src.Register(); err != nil {
		fmt.Printf("  FAIL: could not register keyboard source: %v\n", err)
		return false
	}
	defer src.Unregister()

	fmt.Printf("Press %v...\r\n", keymap.ToggleKey)
	restore := quietTerminal()
	defer restore()

	deadline := time.After(keyTimeout)
	for {
		select {
		case k := <-src.Keys():
			if keymap.Classify(k).Kind == keymap.ToggleRecording {
				fmt.Printf("  PASS: %v detected\r\n", k)
				return true
			}
		case <-deadline:
			fmt.Printf("  FAIL: timeout waiting for %v\r\n", keymap.ToggleKey)
			return false
		}
	}
}

func checkBindAddress(addr string) bool {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		fmt.Println("  Another keynotes may be running; pick a different one with -addr.")
		return false
	}
	l.Close()
	fmt.Println("  PASS: address is free")
	return true
}

func checkClipboard() bool {
	if !clipboard.Available() {
		fmt.Printf("  FAIL: %v\n", clipboard.ErrUnsupported)
		return false
	}

	prev, _ := clipboard.Read()
	defer clipboard.Copy(prev)

	sentinel := fmt.Sprintf("keynotes-doctor-%d", time.Now().UnixNano())
	if err := clipboard.Copy(sentinel); err != nil {
		fmt.Printf("  FAIL: clipboard copy failed: %v\n", err)
		return false
	}
	got, err := clipboard.Read()
	if err != nil {
		fmt.Printf("  FAIL: could not read clipboard: %v\n", err)
		return false
	}
	if got != sentinel {
		fmt.Printf("  FAIL: clipboard round trip returned %q\n", got)
		return false
	}
	fmt.Println("  PASS: clipboard round trip")
	return true
}

// quietTerminal puts stdin in raw mode so key presses made for the
// keyboard check are not echoed. Interrupts still restore the terminal.
func quietTerminal() func() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return func() {}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigChan:
			term.Restore(fd, oldState)
			fmt.Println("\nInterrupted")
			os.Exit(1)
		case <-done:
		}
	}()

	return func() {
		close(done)
		signal.Stop(sigChan)
		term.Restore(fd, oldState)
	}
}
