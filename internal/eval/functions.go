package eval

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
)

var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
}

var unary = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"exp":   math.Exp,
	"ln":    math.Log,
	"log":   math.Log,
	"log2":  math.Log2,
	"log10": math.Log10,
	"trunc": math.Trunc,
	"sign": func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	},
}

var binary = map[string]func(float64, float64) float64{
	"atan2": math.Atan2,
	"pow":   math.Pow,
	"hypot": math.Hypot,
	"mod":   math.Mod,
}

func compileOptions() []expr.Option {
	opts := make([]expr.Option, 0, len(unary)+len(binary))
	for name, fn := range unary {
		opts = append(opts, expr.Function(name, func(params ...any) (any, error) {
			args, err := floatArgs(name, params, 1)
			if err != nil {
				return nil, err
			}
			return fn(args[0]), nil
		}))
	}
	for name, fn := range binary {
		opts = append(opts, expr.Function(name, func(params ...any) (any, error) {
			args, err := floatArgs(name, params, 2)
			if err != nil {
				return nil, err
			}
			return fn(args[0], args[1]), nil
		}))
	}
	return opts
}

func floatArgs(name string, params []any, n int) ([]float64, error) {
	if len(params) != n {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", name, n, len(params))
	}
	out := make([]float64, n)
	for i, p := range params {
		v, ok := toFloat(p)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d is %T, not a number", name, i+1, p)
		}
		out[i] = v
	}
	return out, nil
}
