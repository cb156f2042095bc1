package annotation

// Filter returns the entries with the given namespace, in order.
func Filter(entries []Entry, namespace string) []Entry {
	out := make([]Entry, 0)
	for _, e := range entries {
		if e.Namespace == namespace {
			out = append(out, e)
		}
	}
	return out
}

// Has reports whether any entry has the given namespace.
func Has(entries []Entry, namespace string) bool {
	for _, e := range entries {
		if e.Namespace == namespace {
			return true
		}
	}
	return false
}

// Last returns the most recently added entry with the given namespace.
func Last(entries []Entry, namespace string) (Entry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Namespace == namespace {
			return entries[i], true
		}
	}
	return Entry{}, false
}

// Payloads returns every payload of type P, in order.
func Payloads[P any](entries []Entry) []P {
	out := make([]P, 0)
	for _, e := range entries {
		if p, ok := e.Payload.(P); ok {
			out = append(out, p)
		}
	}
	return out
}

// LastPayload returns the most recently added payload of type P.
func LastPayload[P any](entries []Entry) (P, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if p, ok := entries[i].Payload.(P); ok {
			return p, true
		}
	}
	var zero P
	return zero, false
}
