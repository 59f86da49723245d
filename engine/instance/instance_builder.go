package instance

import "github.com/go-gl/mathgl/mgl32"

// InstanceSetOption is a functional option for configuring an InstanceSet.
type InstanceSetOption func(*instanceSetImpl)

// WithGridSize sets the number of rows (along Z) and columns (along X).
//
// Parameters:
//   - rows: number of rows, must be positive
//   - cols: number of columns, must be positive
//
// Returns:
//   - InstanceSetOption: functional option to set the grid size
func WithGridSize(rows, cols int) InstanceSetOption {
	return func(s *instanceSetImpl) {
		s.rows = rows
		s.cols = cols
	}
}

// WithTilt sets the initial rotation angle of every off-center instance.
//
// Parameters:
//   - degrees: rotation about the instance's normalized position
//
// Returns:
//   - InstanceSetOption: functional option to set the tilt
func WithTilt(degrees float32) InstanceSetOption {
	return func(s *instanceSetImpl) {
		s.tilt = mgl32.DegToRad(degrees)
	}
}

// WithSpinDelta sets the rotation about +Z applied per Spin call.
//
// Parameters:
//   - degrees: rotation per frame
//
// Returns:
//   - InstanceSetOption: functional option to set the spin delta
func WithSpinDelta(degrees float32) InstanceSetOption {
	return func(s *instanceSetImpl) {
		s.spinDelta = mgl32.QuatRotate(mgl32.DegToRad(degrees), mgl32.Vec3{0, 0, 1})
	}
}
