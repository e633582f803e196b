package quantize

import (
	"fmt"
	"strings"
	"unicode"
)

// Kernel names a quantization strategy, either Flat or one of the error
// diffusion kernels.
type Kernel string

// Quantization strategies.
const (
	Flat                Kernel = "Flat"
	FloydSteinberg      Kernel = "FloydSteinberg"
	FalseFloydSteinberg Kernel = "FalseFloydSteinberg"
	Stucki              Kernel = "Stucki"
	Atkinson            Kernel = "Atkinson"
	Jarvis              Kernel = "Jarvis"
	Burkes              Kernel = "Burkes"
	Sierra              Kernel = "Sierra"
	TwoSierra           Kernel = "TwoSierra"
	SierraLite          Kernel = "SierraLite"

	// ShowAll asks for a candidate from every strategy.
	ShowAll Kernel = "ShowAll"
)

// Kernels lists the error diffusion kernels in the order candidates are
// produced.
var Kernels = []Kernel{
	FloydSteinberg,
	FalseFloydSteinberg,
	Stucki,
	Atkinson,
	Jarvis,
	Burkes,
	Sierra,
	TwoSierra,
	SierraLite,
}

// Strategies returns Flat followed by every kernel.
func Strategies() []Kernel {
	return append([]Kernel{Flat}, Kernels...)
}

// ParseKernel returns the strategy named s, or ShowAll, ignoring case.
func ParseKernel(s string) (Kernel, error) {
	for _, k := range append(Strategies(), ShowAll) {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("quantize: unknown kernel %q", s)
}

// Name returns a human readable label, "FloydSteinberg" becomes
// "Floyd steinberg".
func (k Kernel) Name() string {
	var sb strings.Builder
	for i, r := range string(k) {
		if i > 0 && unicode.IsUpper(r) {
			sb.WriteRune(' ')
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
