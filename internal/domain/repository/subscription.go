package repository

// Subscription is a live query. The store invokes the registered callback with
// the full current result set after every change; the first snapshot is
// delivered before Subscribe returns. Close stops delivery and releases the
// underlying channel. Close is safe to call more than once.
type Subscription interface {
	Close()
}
