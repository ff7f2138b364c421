package watch

// FireSuperseded runs the callback of a timer that a later Add replaced.
func (d *Debouncer) FireSuperseded() {
	d.mu.Lock()
	gen := d.gen - 1
	d.mu.Unlock()
	d.fire(gen)
}

// Armed reports whether a flush timer is pending.
func (d *Debouncer) Armed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
