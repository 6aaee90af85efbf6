// Package orchestration runs the timed summation strategies and derives
// the per-input comparison: signed duration delta, faster-method label and
// consistency verdict. Measurement is strictly sequential so timings stay
// comparable; only the progress display runs concurrently. Presentation is
// decoupled through the ProgressReporter and ResultPresenter interfaces.
package orchestration
