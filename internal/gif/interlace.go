package gif

// interlacePasses are the start row and row step of the four passes an
// interlaced image is stored in.
var interlacePasses = [...]struct{ start, step int }{
	{0, 8},
	{4, 8},
	{2, 4},
	{1, 2},
}

// scanRows returns the order in which the rows of an image of the given
// height arrive in the pixel data. Every row appears exactly once.
func scanRows(height int, interlaced bool) []int {
	rows := make([]int, 0, height)
	if !interlaced {
		for y := 0; y < height; y++ {
			rows = append(rows, y)
		}
		return rows
	}
	for _, p := range interlacePasses {
		for y := p.start; y < height; y += p.step {
			rows = append(rows, y)
		}
	}
	return rows
}
