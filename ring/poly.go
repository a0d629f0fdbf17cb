package ring

import "fmt"

// Format tags whether a PolyRq's entries are polynomial coefficients
// (Coeff) or NTT evaluations at the 2N-th roots of unity (Eval).
type Format int

const (
	// Coeff indicates coefficient representation.
	Coeff Format = iota
	// Eval indicates evaluation (NTT) representation.
	Eval
)

func (f Format) String() string {
	if f == Coeff {
		return "Coeff"
	}
	return "Eval"
}

// PolyRq is a 2-D array of coefficients [rns_index][coeff_index] over a
// shared PolyContext, tagged with a Format. Every entry lies in
// [0, moduli[i]). Equality is structural (see Equal).
type PolyRq struct {
	ctx    *PolyContext
	format Format

	// buff is the flat backing store; coeffs[i] is buff[i*N : (i+1)*N].
	buff   []uint64
	coeffs [][]uint64
}

// NewPolyRq allocates a zero polynomial over ctx in the given format.
func NewPolyRq(ctx *PolyContext, format Format) *PolyRq {
	p := &PolyRq{ctx: ctx, format: format}
	p.alloc()
	return p
}

func (p *PolyRq) alloc() {
	n := p.ctx.N()
	l := p.ctx.Levels()
	p.buff = make([]uint64, n*l)
	p.coeffs = make([][]uint64, l)
	for i := 0; i < l; i++ {
		p.coeffs[i] = p.buff[i*n : (i+1)*n]
	}
}

// Context returns the polynomial's PolyContext.
func (p *PolyRq) Context() *PolyContext { return p.ctx }

// Format returns the polynomial's current format tag.
func (p *PolyRq) Format() Format { return p.format }

// N returns the ring degree.
func (p *PolyRq) N() int { return p.ctx.N() }

// Levels returns the number of RNS channels (|moduli|).
func (p *PolyRq) Levels() int { return len(p.coeffs) }

// At returns the coefficient slice for RNS channel i. Callers must not
// retain it past a Resize/reassignment of the polynomial.
func (p *PolyRq) At(i int) []uint64 { return p.coeffs[i] }

// Coefficient returns the L-vector of RNS residues at coefficient index j
// (spec §4.2's `coefficient(j)`).
func (p *PolyRq) Coefficient(j int) []uint64 {
	out := make([]uint64, p.Levels())
	for i := range p.coeffs {
		out[i] = p.coeffs[i][j]
	}
	return out
}

// Zero sets every coefficient to zero.
func (p *PolyRq) Zero() {
	for i := range p.buff {
		p.buff[i] = 0
	}
}

// IsZero reports whether every coefficient is zero. When variableTime is
// false the check still runs in data-independent time over the full
// buffer (no early return) so that callers on a secret-dependent path
// (e.g. transparency checks during decryption) do not leak the index of
// the first non-zero coefficient.
func (p *PolyRq) IsZero(variableTime bool) bool {
	if variableTime {
		for _, c := range p.buff {
			if c != 0 {
				return false
			}
		}
		return true
	}
	var acc uint64
	for _, c := range p.buff {
		acc |= c
	}
	return acc == 0
}

// CopyNew returns a deep copy of p.
func (p *PolyRq) CopyNew() *PolyRq {
	q := &PolyRq{ctx: p.ctx, format: p.format}
	q.buff = append([]uint64(nil), p.buff...)
	n := p.N()
	q.coeffs = make([][]uint64, p.Levels())
	for i := range q.coeffs {
		q.coeffs[i] = q.buff[i*n : (i+1)*n]
	}
	return q
}

// Copy copies the coefficients and format of src into p; both must share
// the same context and degree.
func (p *PolyRq) Copy(src *PolyRq) {
	copy(p.buff, src.buff)
	p.format = src.format
}

// Equal reports structural equality: same context, format, and entries.
func (p *PolyRq) Equal(q *PolyRq) bool {
	if p.ctx != q.ctx || p.format != q.format || len(p.buff) != len(q.buff) {
		return false
	}
	for i := range p.buff {
		if p.buff[i] != q.buff[i] {
			return false
		}
	}
	return true
}

func (p *PolyRq) checkCompatible(q *PolyRq, op string) error {
	if p.ctx != q.ctx {
		return fmt.Errorf("ring: %s: %w", op, ErrContextMismatch)
	}
	if p.format != q.format {
		return fmt.Errorf("ring: %s: %w", op, ErrFormatMismatch)
	}
	return nil
}

// AddAssign sets p := p+q entrywise. Fails with ErrFormatMismatch if the
// formats differ.
func (p *PolyRq) AddAssign(q *PolyRq) error {
	if err := p.checkCompatible(q, "add"); err != nil {
		return err
	}
	for i, m := range p.ctx.Moduli() {
		pc, qc := p.coeffs[i], q.coeffs[i]
		for j := range pc {
			pc[j] = m.Add(pc[j], qc[j])
		}
	}
	return nil
}

// SubAssign sets p := p-q entrywise.
func (p *PolyRq) SubAssign(q *PolyRq) error {
	if err := p.checkCompatible(q, "sub"); err != nil {
		return err
	}
	for i, m := range p.ctx.Moduli() {
		pc, qc := p.coeffs[i], q.coeffs[i]
		for j := range pc {
			pc[j] = m.Sub(pc[j], qc[j])
		}
	}
	return nil
}

// NegAssign sets p := -p entrywise.
func (p *PolyRq) NegAssign() {
	for i, m := range p.ctx.Moduli() {
		pc := p.coeffs[i]
		for j := range pc {
			pc[j] = m.Neg(pc[j])
		}
	}
}

// MulAssign sets p := p*q entrywise (valid in both Coeff and Eval format;
// in Coeff format this is a per-coefficient product, not a ring
// multiplication — callers wanting ring multiplication must convert to
// Eval first, per spec §4.3).
func (p *PolyRq) MulAssign(q *PolyRq) error {
	if err := p.checkCompatible(q, "mul"); err != nil {
		return err
	}
	for i, m := range p.ctx.Moduli() {
		pc, qc := p.coeffs[i], q.coeffs[i]
		for j := range pc {
			pc[j] = m.MulMod(pc[j], qc[j])
		}
	}
	return nil
}

// MultiplyByResidues multiplies each RNS channel i by the scalar
// residues[i] (spec §4.2).
func (p *PolyRq) MultiplyByResidues(residues []uint64) {
	for i, m := range p.ctx.Moduli() {
		c := residues[i]
		pc := p.coeffs[i]
		for j := range pc {
			pc[j] = m.MulMod(pc[j], c)
		}
	}
}

// MultiplyInversePowerOfX shifts coefficients left by k with negacyclic
// wraparound (spec §4.2): a_i <- a_{(i+k) mod N}, negated for indices that
// wrapped past N. Requires Coeff format.
func (p *PolyRq) MultiplyInversePowerOfX(k int) error {
	if p.format != Coeff {
		return fmt.Errorf("ring: multiply_inverse_power_of_x: %w", ErrFormatMismatch)
	}
	n := p.N()
	k = ((k % n) + n) % n
	for i, m := range p.ctx.Moduli() {
		src := p.coeffs[i]
		dst := make([]uint64, n)
		for j := 0; j < n; j++ {
			srcIdx := j + k
			if srcIdx < n {
				dst[j] = src[srcIdx]
			} else {
				dst[j] = m.Neg(src[srcIdx-n])
			}
		}
		copy(src, dst)
	}
	return nil
}
