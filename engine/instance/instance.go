// Package instance manages the grid of per-instance transforms drawn with a single instanced call.
package instance

import (
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// Instance is the placement of one copy of the mesh.
type Instance struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// ToRaw returns the model matrix translation(Position) * rotation(Rotation).
//
// Returns:
//   - GPUInstanceRaw: the packed model matrix
func (i Instance) ToRaw() GPUInstanceRaw {
	model := mgl32.Translate3D(i.Position.X(), i.Position.Y(), i.Position.Z()).Mul4(i.Rotation.Mat4())
	return GPUInstanceRaw{Model: model}
}

type instanceSetImpl struct {
	rows, cols int
	tilt       float32
	spinDelta  mgl32.Quat
	instances  []Instance

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// InstanceSet is the ordered, fixed-size collection of instances. Its order is the order of the
// per-instance vertex buffer and never changes.
type InstanceSet interface {
	// Instances returns the current instances. Callers must not modify the slice.
	Instances() []Instance

	// Len returns the number of instances.
	Len() int

	// Dimensions returns the grid size.
	//
	// Returns:
	//   - rows, cols: the number of rows and columns
	Dimensions() (rows, cols int)

	// SpinDelta returns the rotation applied to every instance by each Spin call.
	SpinDelta() mgl32.Quat

	// Spin right-multiplies every rotation by SpinDelta. Positions are unchanged.
	Spin()

	// Raw returns the model matrix of every instance, in order.
	Raw() []GPUInstanceRaw

	// Marshal serializes Raw for upload to the instance buffer.
	//
	// Returns:
	//   - []byte: Len() * 64 bytes
	Marshal() []byte

	// BindGroupProvider returns the provider that owns the per-instance vertex buffer.
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ InstanceSet = &instanceSetImpl{}

// NewInstanceSet builds a rows x cols grid in the XZ plane centered on the origin.
// The instance at exactly the origin has the identity rotation; every other instance is
// tilted about its normalized position.
//
// Defaults: 10 x 10 grid, 45 degree tilt, 1 degree spin about +Z per Spin call.
//
// Parameters:
//   - options: functional options to configure the set
//
// Returns:
//   - InstanceSet: the new instance set
func NewInstanceSet(options ...InstanceSetOption) InstanceSet {
	s := &instanceSetImpl{
		rows:      10,
		cols:      10,
		tilt:      mgl32.DegToRad(45),
		spinDelta: mgl32.QuatRotate(mgl32.DegToRad(1), mgl32.Vec3{0, 0, 1}),
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"instances",
		),
	}
	for _, option := range options {
		option(s)
	}

	displacement := mgl32.Vec3{float32(s.cols) * 0.5, 0, float32(s.rows) * 0.5}
	s.instances = make([]Instance, 0, s.rows*s.cols)
	for z := 0; z < s.rows; z++ {
		for x := 0; x < s.cols; x++ {
			position := mgl32.Vec3{float32(x), 0, float32(z)}.Sub(displacement)
			s.instances = append(s.instances, Instance{
				Position: position,
				Rotation: initialRotation(position, s.tilt),
			})
		}
	}
	return s
}

// initialRotation returns 0 degrees about +Z at the origin, else tilt radians about the
// normalized position.
func initialRotation(position mgl32.Vec3, tilt float32) mgl32.Quat {
	if position == (mgl32.Vec3{}) {
		return mgl32.QuatRotate(0, mgl32.Vec3{0, 0, 1})
	}
	return mgl32.QuatRotate(tilt, position.Normalize())
}

func (s *instanceSetImpl) Instances() []Instance {
	return s.instances
}

func (s *instanceSetImpl) Len() int {
	return len(s.instances)
}

func (s *instanceSetImpl) Dimensions() (rows, cols int) {
	return s.rows, s.cols
}

func (s *instanceSetImpl) SpinDelta() mgl32.Quat {
	return s.spinDelta
}

func (s *instanceSetImpl) Spin() {
	for i := range s.instances {
		s.instances[i].Rotation = s.instances[i].Rotation.Mul(s.spinDelta)
	}
}

func (s *instanceSetImpl) Raw() []GPUInstanceRaw {
	raw := make([]GPUInstanceRaw, len(s.instances))
	for i, inst := range s.instances {
		raw[i] = inst.ToRaw()
	}
	return raw
}

func (s *instanceSetImpl) Marshal() []byte {
	buf := make([]byte, 0, len(s.instances)*64)
	for _, raw := range s.Raw() {
		buf = append(buf, raw.Marshal()...)
	}
	return buf
}

func (s *instanceSetImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return s.bindGroupProvider
}
