package optics

// JCCOffset is the angle between the paddle handle and each of its
// cylinder meridians.
const JCCOffset = 45

// RedLine is the minus-cylinder meridian of a JCC held at handle.
// Position 1 puts it 45° clockwise of the handle, Position 2 counter-clockwise.
func RedLine(handle Axis, flipped bool) Axis {
	offset := -JCCOffset
	if flipped {
		offset = JCCOffset
	}
	return ToAxis(float64(int(handle) + offset))
}

// GreenLine is the plus-cylinder meridian, always perpendicular to RedLine.
func GreenLine(handle Axis, flipped bool) Axis {
	offset := JCCOffset
	if flipped {
		offset = -JCCOffset
	}
	return ToAxis(float64(int(handle) + offset))
}

// Meridians holds both lines of the paddle for display.
type Meridians struct {
	Red   Axis `json:"red"`
	Green Axis `json:"green"`
}

func JCCMeridians(handle Axis, flipped bool) Meridians {
	return Meridians{
		Red:   RedLine(handle, flipped),
		Green: GreenLine(handle, flipped),
	}
}
