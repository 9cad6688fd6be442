package adapter_test

import (
	"context"
	"errors"

	"github.com/valpere/promptadapt/internal/generator"
)

// stubGenerator returns a fixed result or error and counts calls.
type stubGenerator struct {
	text  string
	err   error
	calls int
	last  generator.Request
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Generate(ctx context.Context, req generator.Request) (*generator.Result, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &generator.Result{Text: s.text, Model: "stub"}, nil
}

// stubChecker answers every language check with a fixed verdict.
type stubChecker struct {
	ok bool
}

func (s *stubChecker) CheckLanguage(text, wantLang string) (bool, error) {
	if s.ok {
		return true, nil
	}
	return false, errors.New("detected wrong language")
}
