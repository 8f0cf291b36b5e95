package cmd

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/docs"
	"github.com/google/subcommands"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// setup points the global flags and the environment to a fresh file store.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LB_STORE", "file")
	t.Setenv("LB_KEY", "loans.json")
	t.Setenv("LB_CURRENCY", "USD")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LB_ADVISOR_LANGUAGE", "English")
	t.Setenv("LB_SMTP_HOST", "")
	t.Setenv("LB_REMIND_TO", "")

	prevDir, prevStore, prevKey, prevRaw := *dirFlag, *storeFlag, *keyFlag, *rawFlag
	prevOut, prevErr := stdout, stderr
	*dirFlag, *storeFlag, *keyFlag, *rawFlag = dir, "", "", true
	t.Cleanup(func() {
		*dirFlag, *storeFlag, *keyFlag, *rawFlag = prevDir, prevStore, prevKey, prevRaw
		stdout, stderr = prevOut, prevErr
	})
	return dir
}

// run executes the command line args and returns its exit status and output.
func run(t *testing.T, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	fs := flag.NewFlagSet("lb", flag.ContinueOnError)
	c := subcommands.NewCommander(fs, "lb")
	c.Output, c.Error = io.Discard, io.Discard
	Register(c)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("cannot parse %q: %v", args, err)
	}

	var out bytes.Buffer
	stdout, stderr = &out, &out
	status := c.Execute(context.Background())
	return status, out.String()
}

// mustRun runs args and fails the test unless it succeeds.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	status, out := run(t, args...)
	if status != subcommands.ExitSuccess {
		t.Fatalf("lb %s = %v, want success:\n%s", strings.Join(args, " "), status, out)
	}
	return out
}

// stored returns the loans currently in the store.
func stored(t *testing.T) []*loanbook.Loan {
	t.Helper()
	loans, err := loanbook.DecodeLoans(strings.NewReader(mustRun(t, "export")))
	if err != nil {
		t.Fatalf("cannot decode export: %v", err)
	}
	return loans
}

func TestLifecycle(t *testing.T) {
	setup(t)

	mustRun(t, "new", "-name", "Somchai", "-principal", "600", "-interest", "0", "-start", "2025-01-01", "-term", "1_month")
	loans := stored(t)
	if len(loans) != 1 {
		t.Fatalf("got %d loans, want 1", len(loans))
	}
	id := loans[0].ID
	if loans[0].Term != loanbook.OneMonth {
		t.Errorf("term = %q, want %q", loans[0].Term, loanbook.OneMonth)
	}

	out := mustRun(t, "repay", "-d", "2025-02-01", id[:8], "500")
	if !strings.Contains(out, "ACTIVE") || !strings.Contains(out, "$100.00") {
		t.Errorf("after a partial repayment:\n%s", out)
	}

	out = mustRun(t, "repay", "-d", "2025-02-02", id, "100")
	if !strings.Contains(out, "CLOSED") {
		t.Errorf("after the full repayment:\n%s", out)
	}

	out = mustRun(t, "list", "-active")
	if !strings.Contains(out, "No loan yet.") {
		t.Errorf("list -active shows a closed loan:\n%s", out)
	}

	out = mustRun(t, "dashboard")
	if !strings.Contains(out, "| Active loans | 0 |") {
		t.Errorf("dashboard:\n%s", out)
	}

	last := stored(t)[0].Transactions[0]
	if last.Amount.String() != "100" || last.Date.String() != "2025-02-02" {
		t.Fatalf("most recent transaction = %+v", last)
	}
	out = mustRun(t, "tx-rm", id, last.ID)
	if !strings.Contains(out, "ACTIVE") {
		t.Errorf("deleting the last repayment does not reopen the loan:\n%s", out)
	}

	out = mustRun(t, "notify", id)
	if !strings.Contains(out, "off") {
		t.Errorf("notify = %q, want notifications off", out)
	}

	out = mustRun(t, "rm", id)
	if !strings.Contains(out, "Deleted loan") || len(stored(t)) != 0 {
		t.Errorf("rm = %q", out)
	}
}

func TestEditKeepsUnsetTerms(t *testing.T) {
	setup(t)
	mustRun(t, "new", "-name", "Team", "-kind", "GROUP", "-principal", "100", "-start", "2025-03-01", "-day", "5")
	id := stored(t)[0].ID

	mustRun(t, "edit", "-interest", "10", id)
	l := stored(t)[0]
	if l.BorrowerKind != loanbook.Group || l.BorrowerName != "Team" || l.RepaymentDay != 5 || l.TotalInterest.String() != "10" {
		t.Errorf("edited loan = %+v", l)
	}
}

func TestTxEdit(t *testing.T) {
	setup(t)
	mustRun(t, "new", "-name", "Malee", "-principal", "100", "-start", "2025-03-01")
	id := stored(t)[0].ID
	mustRun(t, "fee", "-d", "2025-03-02", "-note", "late", id, "10")
	mustRun(t, "repay", "-d", "2025-03-03", id, "40")

	repayment := stored(t)[0].Transactions[0]
	out := mustRun(t, "tx-edit", "-amount", "100", id, repayment.ID)
	if !strings.Contains(out, "CLOSED") {
		t.Errorf("tx-edit to the full amount does not close the loan:\n%s", out)
	}
	if status, _ := run(t, "tx-edit", id, repayment.ID); status != subcommands.ExitUsageError {
		t.Errorf("tx-edit without change = %v, want usage error", status)
	}
}

func TestTxEditSeedRefused(t *testing.T) {
	setup(t)
	mustRun(t, "new", "-name", "Malee", "-principal", "100", "-start", "2025-03-01", "-slip", "https://example.com/slip.jpg")
	l := stored(t)[0]
	seed := l.Transactions[0]
	if status, out := run(t, "tx-edit", "-amount", "90", l.ID, seed.ID); status != subcommands.ExitUsageError || !strings.Contains(out, "initial LEND") {
		t.Errorf("tx-edit of the initial LEND = %v:\n%s", status, out)
	}
	if got := stored(t)[0].Transactions[0]; !got.Amount.Equal(seed.Amount) {
		t.Errorf("seed amount = %s, want %s", got.Amount, seed.Amount)
	}
}

func TestErrors(t *testing.T) {
	setup(t)
	mustRun(t, "new", "-name", "Somchai", "-principal", "600", "-start", "2025-01-01")
	id := stored(t)[0].ID

	testCases := []struct {
		args []string
		want subcommands.ExitStatus
	}{
		{args: []string{"new", "-name", "Nobody"}, want: subcommands.ExitUsageError},
		{args: []string{"new", "-name", "", "-principal", "10"}, want: subcommands.ExitUsageError},
		{args: []string{"new", "-name", "X", "-principal", "10", "-term", "2_WEEKS"}, want: subcommands.ExitUsageError},
		{args: []string{"repay", id, "-5"}, want: subcommands.ExitUsageError},
		{args: []string{"repay", "-d", "someday", id, "5"}, want: subcommands.ExitUsageError},
		{args: []string{"repay", "unknown", "5"}, want: subcommands.ExitFailure},
		{args: []string{"tx-rm", id, "unknown"}, want: subcommands.ExitFailure},
		{args: []string{"show"}, want: subcommands.ExitUsageError},
		{args: []string{"query", "$["}, want: subcommands.ExitUsageError},
	}
	for _, tc := range testCases {
		if status, out := run(t, tc.args...); status != tc.want {
			t.Errorf("lb %s = %v, want %v:\n%s", strings.Join(tc.args, " "), status, tc.want, out)
		}
	}
	if n := len(stored(t)[0].Transactions); n != 0 {
		t.Errorf("failed commands recorded %d transactions", n)
	}
}

const legacyExport = `[{"id":"1717171717171","borrowerName":"Somchai","borrowerType":"INDIVIDUAL","amount":1000,
"interestRate":0,"totalInterest":100,"term":"3_MONTHS","startDate":"2024-05-01T00:00:00.000Z","status":"OVERDUE",
"notificationsEnabled":true,"transactions":[]}]`

func TestImportQuery(t *testing.T) {
	dir := setup(t)
	file := filepath.Join(dir, "export.json")
	if err := os.WriteFile(file, []byte(legacyExport), 0644); err != nil {
		t.Fatal(err)
	}

	if out := mustRun(t, "import", "-legacy", file); !strings.Contains(out, "Imported 1 of 1 loans") {
		t.Errorf("import = %q", out)
	}
	if out := mustRun(t, "import", "-legacy", file); !strings.Contains(out, "Imported 0 of 1 loans") {
		t.Errorf("second import = %q", out)
	}

	out := mustRun(t, "query", `$[?(@.status=="ACTIVE")].borrowerName`)
	if strings.Join(strings.Fields(out), "") != `["Somchai"]` {
		t.Errorf("query = %q", out)
	}

	backup := filepath.Join(dir, "backup.json")
	mustRun(t, "export", "-o", backup)
	*keyFlag = "restored.json"
	if out := mustRun(t, "import", backup); !strings.Contains(out, "Imported 1 of 1 loans") {
		t.Errorf("import of an export = %q", out)
	}
}

func TestAnalyzeNotConfigured(t *testing.T) {
	setup(t)
	status, out := run(t, "analyze")
	if status != subcommands.ExitUsageError || !strings.Contains(out, "GEMINI_API_KEY") {
		t.Errorf("analyze = %v, %q", status, out)
	}
}

func TestReadAttachment(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "slip.png")
	if err := os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := readAttachment(png)
	if err != nil || !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Errorf("readAttachment(png) = %q, %v", got, err)
	}
	for _, ref := range []string{"", "https://example.com/slip.jpg", "data:image/jpeg;base64,AAAA"} {
		if got, err := readAttachment(ref); err != nil || got != ref {
			t.Errorf("readAttachment(%q) = %q, %v", ref, got, err)
		}
	}
	if _, err := readAttachment(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("readAttachment(missing) returned no error")
	}
}

func TestCompletionCoversCommands(t *testing.T) {
	c := subcommands.NewCommander(flag.NewFlagSet("lb", flag.ContinueOnError), "lb")
	Register(c)
	sub := Completion().Sub
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if _, ok := sub[cmd.Name()]; !ok {
			t.Errorf("command %q has no completion", cmd.Name())
		}
	})
}

func TestRemind(t *testing.T) {
	setup(t)
	mustRun(t, "new", "-name", "Malee", "-principal", "100", "-start", "2025-01-01", "-day", "4")
	mustRun(t, "repay", "-d", "2025-02-01", stored(t)[0].ID, "160")
	mustRun(t, "new", "-name", "Somchai", "-principal", "600", "-interest", "60", "-start", "2025-01-01", "-day", "5")

	out := mustRun(t, "remind", "-d", "2025-02-03", "-days", "3")
	if !strings.Contains(out, "| 5 Feb 2025 |") || !strings.Contains(out, "$660.00") || strings.Contains(out, "Malee") {
		t.Errorf("remind:\n%s", out)
	}
	out = mustRun(t, "remind", "-d", "2025-02-06", "-days", "3")
	if !strings.Contains(out, "Nothing due in the next 3 days.") {
		t.Errorf("remind after the due date:\n%s", out)
	}
	if status, _ := run(t, "remind", "-email"); status != subcommands.ExitUsageError {
		t.Errorf("remind -email without SMTP settings = %v, want usage error", status)
	}
}

func TestCollections(t *testing.T) {
	setup(t)
	mustRun(t, "new", "-name", "Somchai", "-principal", "600", "-start", "2025-01-10", "-slip", "https://example.com/slip.jpg")
	id := stored(t)[0].ID
	mustRun(t, "repay", "-d", "2025-02-01", id, "200")
	mustRun(t, "repay", "-d", "2025-02-15", id, "100")
	mustRun(t, "fee", "-d", "2025-03-01", id, "10")

	out := mustRun(t, "collections", "-s", "2025-01-01", "-d", "2025-03-31")
	for _, want := range []string{
		"| 2025-01 | $600.00 | $0.00 | $0.00 | 0 |",
		"| 2025-02 | $0.00 | $300.00 | $0.00 | 2 |",
		"| 2025-03 | $0.00 | $0.00 | $10.00 | 0 |",
		"| Total | $600.00 | $300.00 | $10.00 | 2 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("collections does not contain %q:\n%s", want, out)
		}
	}
	if status, _ := run(t, "collections", "-p", "fortnight"); status != subcommands.ExitUsageError {
		t.Errorf("collections -p fortnight = %v, want usage error", status)
	}
}

func TestTopic(t *testing.T) {
	setup(t)
	if out := mustRun(t, "topic"); !strings.Contains(out, "* storage:") {
		t.Errorf("topic = %q", out)
	}
	if out := mustRun(t, "topic", "status"); !strings.Contains(out, "# Status") {
		t.Errorf("topic status = %q", out)
	}
	if status, _ := run(t, "topic", "overdue"); status != subcommands.ExitUsageError {
		t.Errorf("topic overdue = %v, want usage error", status)
	}
}

// TestTopicsUseKnownCommands checks the command lines of the documentation
// code blocks against the registered commands.
func TestTopicsUseKnownCommands(t *testing.T) {
	fs := flag.NewFlagSet("lb", flag.ContinueOnError)
	c := subcommands.NewCommander(fs, "lb")
	Register(c)
	known := map[string]bool{}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) { known[cmd.Name()] = true })

	for _, topic := range docs.All() {
		md, err := docs.Topic(topic)
		if err != nil {
			t.Fatal(err)
		}
		src := []byte(md)
		root := goldmark.DefaultParser().Parse(text.NewReader(src))
		ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			block, ok := n.(*ast.FencedCodeBlock)
			if !entering || !ok {
				return ast.WalkContinue, nil
			}
			for i := 0; i < block.Lines().Len(); i++ {
				line := block.Lines().At(i)
				args := strings.Fields(string(line.Value(src)))
				if len(args) < 2 || args[0] != "lb" {
					continue
				}
				name := args[1]
				for j := 1; j < len(args) && strings.HasPrefix(args[j], "-"); j += 2 {
					if j+2 < len(args) {
						name = args[j+2]
					}
				}
				if !known[name] {
					t.Errorf("topic %q uses unknown command %q: %s", topic, name, line.Value(src))
				}
			}
			return ast.WalkContinue, nil
		})
	}
}
