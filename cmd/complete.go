package cmd

import (
	"context"
	"time"

	"github.com/etnz/loanbook"
	"github.com/etnz/loanbook/docs"
	"github.com/etnz/loanbook/store"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the lb command line.
// Install it with COMP_INSTALL=1 lb.
func Completion() *complete.Command {
	kinds := predict.Set{string(loanbook.Individual), string(loanbook.Group)}
	terms := make(predict.Set, 0, len(loanbook.AllTerms))
	for _, t := range loanbook.AllTerms {
		terms = append(terms, string(t))
	}
	loans := complete.PredictFunc(predictLoanIDs)
	topics := predict.Set(append(docs.All(), "*"))

	termsFlags := map[string]complete.Predictor{
		"name":      predict.Something,
		"kind":      kinds,
		"principal": predict.Something,
		"interest":  predict.Something,
		"term":      terms,
		"start":     predict.Something,
		"day":       predict.Something,
	}
	newFlags := map[string]complete.Predictor{"slip": predict.Files("*")}
	for k, v := range termsFlags {
		newFlags[k] = v
	}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"store": predict.Set{string(store.FileBackend), string(store.SQLiteBackend), string(store.RedisBackend)},
			"dir":   predict.Dirs("*"),
			"key":   predict.Something,
			"raw":   predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"new":    {Flags: newFlags},
			"edit":   {Flags: termsFlags, Args: loans},
			"rm":     {Args: loans},
			"notify": {Args: loans},
			"repay": {
				Flags: map[string]complete.Predictor{"d": predict.Something, "slip": predict.Files("*")},
				Args:  loans,
			},
			"fee": {
				Flags: map[string]complete.Predictor{"d": predict.Something, "note": predict.Something},
				Args:  loans,
			},
			"tx-edit": {
				Flags: map[string]complete.Predictor{"amount": predict.Something, "d": predict.Something},
				Args:  loans,
			},
			"tx-rm": {Args: loans},
			"list": {
				Flags: map[string]complete.Predictor{"active": predict.Nothing, "name": predict.Something},
			},
			"show":      {Args: loans},
			"dashboard": {},
			"analyze":   {},
			"query":     {Args: predict.Something},
			"collections": {
				Flags: map[string]complete.Predictor{
					"p": predict.Set{"day", "week", "month", "quarter", "year"},
					"s": predict.Something,
					"d": predict.Something,
				},
			},
			"topic": {Args: topics},
			"remind": {
				Flags: map[string]complete.Predictor{
					"days":  predict.Something,
					"d":     predict.Something,
					"email": predict.Nothing,
					"watch": predict.Nothing,
				},
			},
			"import": {
				Flags: map[string]complete.Predictor{"legacy": predict.Nothing},
				Args:  predict.Files("*.json"),
			},
			"export": {
				Flags: map[string]complete.Predictor{"legacy": predict.Nothing, "o": predict.Files("*.json")},
			},
		},
	}
}

// predictLoanIDs suggests the ids of the stored loans. It stays silent on
// any error since it runs inside the shell.
func predictLoanIDs(prefix string) []string {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	blob, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil
	}
	defer blob.Close()

	loans, err := store.Snapshots{Blob: blob, Key: cfg.Key}.Load(ctx)
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(loans))
	for _, l := range loans {
		ids = append(ids, l.ID)
	}
	return ids
}
