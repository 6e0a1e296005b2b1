package risk

// NeutralSignal is the documented default substituted for any missing signal
// component. Sits at the midpoint of the 0-100 scale so a defaulted component
// pulls the composite toward neither extreme.
const NeutralSignal = 50.0

// ResolveSignal applies the graceful-degradation policy for one optional
// signal: a present value is clamped into [0,100] and marked live, an absent
// value substitutes the neutral default and is marked defaulted.
func ResolveSignal(v *float64) (value float64, live bool) {
	if v == nil {
		return NeutralSignal, false
	}
	return clamp(*v, 0, 100), true
}
