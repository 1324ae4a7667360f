package benchmark

import (
	"github.com/blackboxopt/tuner-core/internal/algorithm"
	"github.com/blackboxopt/tuner-core/internal/ledger"
	"github.com/blackboxopt/tuner-core/internal/support"
)

// AlgorithmRunner bundles one algorithm instance with the ledger and
// supporter it reads and writes through. One bundle per benchmark run;
// algorithm state is never shared across runs.
type AlgorithmRunner struct {
	Designer  algorithm.Designer
	Ledger    *ledger.Ledger
	Supporter support.PolicySupporter
}

// State is everything one benchmark run mutates: the experimenter
// supplying objective values and the algorithm bundle accumulating
// trials. Subroutines share it by reference.
type State struct {
	Experimenter Experimenter
	Algorithm    *AlgorithmRunner
}

// NewState wires a fresh run: its own ledger, a supporter over that
// ledger, and an algorithm built by name from the experimenter's
// problem statement.
func NewState(exp Experimenter, algorithmName string, opts algorithm.Options) (*State, error) {
	l := ledger.New(nil)
	sup := support.NewLedgerSupporter(l, exp.ProblemStatement())
	d, err := algorithm.New(algorithmName, exp.ProblemStatement(), sup, opts)
	if err != nil {
		return nil, err
	}
	return &State{
		Experimenter: exp,
		Algorithm: &AlgorithmRunner{
			Designer:  d,
			Ledger:    l,
			Supporter: sup,
		},
	}, nil
}
