package types

import (
	"strings"
)

type ModelType uint8

const (
	MODEL_Nonlinear ModelType = iota
	MODEL_Linear
	MODEL_Adjoint
	MODEL_LinearPeriodic
	MODEL_Invalid
)

var (
	ModelNameMap = map[string]ModelType{
		"nonlinear":      MODEL_Nonlinear,
		"linear":         MODEL_Linear,
		"linearized":     MODEL_Linear,
		"adjoint":        MODEL_Adjoint,
		"linearperiodic": MODEL_LinearPeriodic,
	}
	modelNames = []string{
		"Nonlinear Navier-Stokes",
		"Linearized Navier-Stokes",
		"Adjoint Navier-Stokes",
		"Linearized Periodic Navier-Stokes",
		"Invalid",
	}
)

// NewModelType is case insensitive, unknown names map to MODEL_Invalid
func NewModelType(label string) (mt ModelType) {
	var (
		ok bool
	)
	if mt, ok = ModelNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		mt = MODEL_Invalid
	}
	return
}

func (mt ModelType) String() string {
	if int(mt) >= len(modelNames) {
		return modelNames[MODEL_Invalid]
	}
	return modelNames[mt]
}

// NeedsBaseFlow is true for every model linearized about a reference state
func (mt ModelType) NeedsBaseFlow() bool {
	return mt == MODEL_Linear || mt == MODEL_Adjoint || mt == MODEL_LinearPeriodic
}

type SchemeType uint8

const (
	SCHEME_Euler SchemeType = iota
	SCHEME_AB2
	SCHEME_RK2
	SCHEME_RK3
	SCHEME_Invalid
)

var (
	SchemeNameMap = map[string]SchemeType{
		"euler": SCHEME_Euler,
		"ab2":   SCHEME_AB2,
		"rk2":   SCHEME_RK2,
		"rk3":   SCHEME_RK3,
	}
	schemeNames = []string{
		"Explicit Euler",
		"Adams Bashforth",
		"Runge Kutta 2",
		"Runge Kutta 3",
		"Invalid",
	}
)

func NewSchemeType(label string) (st SchemeType) {
	var (
		ok bool
	)
	if st, ok = SchemeNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		st = SCHEME_Invalid
	}
	return
}

func (st SchemeType) String() string {
	if int(st) >= len(schemeNames) {
		return schemeNames[SCHEME_Invalid]
	}
	return schemeNames[st]
}

type SolverType uint8

const (
	SOLVER_Auto SolverType = iota
	SOLVER_Cholesky
	SOLVER_ConjugateGradient
	SOLVER_Invalid
)

var (
	SolverNameMap = map[string]SolverType{
		"":         SOLVER_Auto,
		"auto":     SOLVER_Auto,
		"cholesky": SOLVER_Cholesky,
		"cg":       SOLVER_ConjugateGradient,
	}
	solverNames = []string{
		"Auto",
		"Cholesky",
		"Conjugate Gradient",
		"Invalid",
	}
)

func NewSolverType(label string) (st SolverType) {
	var (
		ok bool
	)
	if st, ok = SolverNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		st = SOLVER_Invalid
	}
	return
}

func (st SolverType) String() string {
	if int(st) >= len(solverNames) {
		return solverNames[SOLVER_Invalid]
	}
	return solverNames[st]
}
