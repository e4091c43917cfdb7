package math

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}
