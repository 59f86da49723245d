package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithSpeed sets the distance moved per update while a movement key is held.
//
// Parameters:
//   - speed: movement step, must be positive
//
// Returns:
//   - CameraControllerOption: functional option to set the speed
func WithSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.speed = speed
	}
}

// WithMinDistance sets how close forward motion may bring the eye to the target.
// Non-positive distances are ignored; a zero distance would land the eye on the target.
//
// Parameters:
//   - distance: minimum eye-to-target distance, must be positive
//
// Returns:
//   - CameraControllerOption: functional option to set the minimum distance
func WithMinDistance(distance float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if distance > 0 {
			cc.minDistance = distance
		}
	}
}
