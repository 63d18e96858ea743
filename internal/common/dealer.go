package common

// Dealer is a worklist handing out every key once, in the order keys were
// first needed.
type Dealer[K comparable] struct {
	needs []K
	seen  map[K]struct{}
}

// Needs queues every key not queued before.
func (d *Dealer[K]) Needs(keys ...K) {
	if d.seen == nil {
		d.seen = make(map[K]struct{})
	}

	for _, k := range keys {
		if _, exists := d.seen[k]; exists {
			continue
		}

		d.seen[k] = struct{}{}
		d.needs = append(d.needs, k)
	}
}

// NextNeeds pops the oldest queued key.
func (d *Dealer[K]) NextNeeds() (k K, ok bool) {
	if len(d.needs) == 0 {
		return k, false
	}

	k, d.needs = d.needs[0], d.needs[1:]

	return k, true
}
