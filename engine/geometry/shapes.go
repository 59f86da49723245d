package geometry

// hexagonVertices is a unit hexagon in the XY plane with a center vertex for a triangle fan.
var hexagonVertices = []GPUVertex{
	{Position: [3]float32{0.0, 0.0, 0.0}, TexCoords: [2]float32{0.5, 0.5}},
	{Position: [3]float32{0.0, 1.0, 0.0}, TexCoords: [2]float32{1.0, 0.5}},
	{Position: [3]float32{-0.86, 0.5, 0.0}, TexCoords: [2]float32{0.75, 0.9330127018922193}},
	{Position: [3]float32{-0.86, -0.5, 0.0}, TexCoords: [2]float32{0.25, 0.9330127018922194}},
	{Position: [3]float32{0.0, -1.0, 0.0}, TexCoords: [2]float32{0.0, 0.5}},
	{Position: [3]float32{0.86, -0.5, 0.0}, TexCoords: [2]float32{0.25, 0.06698729810778081}},
	{Position: [3]float32{0.86, 0.5, 0.0}, TexCoords: [2]float32{0.75, 0.06698729810778048}},
}

var hexagonIndices = []uint32{
	0, 1, 2,
	0, 2, 3,
	0, 3, 4,
	0, 4, 5,
	0, 5, 6,
	0, 6, 1,
}

// squareVertices spans [-1, 1] in X and Y.
var squareVertices = []GPUVertex{
	{Position: [3]float32{-1.0, 1.0, 0.0}, TexCoords: [2]float32{0.0, 1.0}},
	{Position: [3]float32{1.0, 1.0, 0.0}, TexCoords: [2]float32{1.0, 1.0}},
	{Position: [3]float32{-1.0, -1.0, 0.0}, TexCoords: [2]float32{0.0, 0.0}},
	{Position: [3]float32{1.0, -1.0, 0.0}, TexCoords: [2]float32{1.0, 0.0}},
}

var squareIndices = []uint32{
	0, 2, 3,
	0, 3, 1,
}
