package ports

type RandomSource interface {
	Float64() float64
	IntN(n int) int
}
