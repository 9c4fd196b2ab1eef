package scene

// Update is a deferred mutation of the scene, addressed either to one
// tagged object or to the scene as a whole. Updates run between render
// passes, when no worker holds a reference to scene state.
type Update struct {
	tag    string
	object func(object *Object, queue *UpdateQueue)
	whole  func(scene *Scene, queue *UpdateQueue)
}

// UpdateObject creates an update that mutates the object with the given
// tag. The update is dropped silently if no such object exists.
func UpdateObject(tag string, fn func(object *Object, queue *UpdateQueue)) Update {
	return Update{tag: tag, object: fn}
}

// UpdateScene creates an update that mutates the whole scene
func UpdateScene(fn func(scene *Scene, queue *UpdateQueue)) Update {
	return Update{whole: fn}
}

// UpdateQueue collects deferred scene mutations. Updates may push
// further updates while running; Commit drains until the queue is empty.
type UpdateQueue struct {
	updates []Update
}

// NewUpdateQueue creates an empty queue
func NewUpdateQueue() *UpdateQueue {
	return &UpdateQueue{}
}

// Push appends an update to the queue
func (q *UpdateQueue) Push(update Update) {
	q.updates = append(q.updates, update)
}

// Len returns the number of pending updates
func (q *UpdateQueue) Len() int {
	return len(q.updates)
}

// Commit applies every queued update to the scene, including updates
// pushed transitively while draining.
func (s *Scene) Commit(queue *UpdateQueue) {
	for len(queue.updates) > 0 {
		update := queue.updates[0]
		queue.updates = queue.updates[1:]

		switch {
		case update.whole != nil:
			update.whole(s, queue)
		case update.object != nil:
			if object := s.FindByTag(update.tag); object != nil {
				update.object(object, queue)
			}
		}
	}
}
