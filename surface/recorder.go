package surface

// OpKind identifies a recorded drawing operation.
type OpKind uint8

const (
	OpClear OpKind = iota
	OpCircle
	OpLine
)

// Op is one recorded drawing operation with the state it was drawn with.
type Op struct {
	Kind           OpKind
	X0, Y0, X1, Y1 float64 // Clear: rect origin and size; Line: endpoints
	R              float64 // Circle radius, center in X0/Y0
	Alpha          float64 // Global alpha at draw time
	Paint          Paint   // Fill for circles, stroke for lines
}

// Recorder is a Surface that records operations instead of drawing them.
type Recorder struct {
	State
	w, h    float64
	Ops     []Op
	Resizes int
}

// NewRecorder creates a recorder of the given size.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{State: NewState(), w: w, h: h}
}

// Width implements Surface.
func (r *Recorder) Width() float64 { return r.w }

// Height implements Surface.
func (r *Recorder) Height() float64 { return r.h }

// SetSize implements Resizable.
func (r *Recorder) SetSize(w, h float64) {
	r.w, r.h = w, h
	r.ResetState()
	r.Resizes++
}

// ClearRect implements Surface.
func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, X0: x, Y0: y, X1: w, Y1: h, Alpha: r.alpha})
}

// FillCircle implements Surface.
func (r *Recorder) FillCircle(cx, cy, rad float64) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X0: cx, Y0: cy, R: rad, Alpha: r.alpha, Paint: r.fill})
}

// Line implements Surface.
func (r *Recorder) Line(x0, y0, x1, y1 float64) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X0: x0, Y0: y0, X1: x1, Y1: y1, Alpha: r.alpha, Paint: r.stroke})
}

// Lines returns the recorded line operations.
func (r *Recorder) Lines() []Op { return r.filter(OpLine) }

// Circles returns the recorded circle operations.
func (r *Recorder) Circles() []Op { return r.filter(OpCircle) }

// Clears returns the recorded clear operations.
func (r *Recorder) Clears() []Op { return r.filter(OpClear) }

// Reset drops recorded operations, keeping size and style.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

func (r *Recorder) filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}
