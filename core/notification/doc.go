// Package notification provides an in-process notification center whose
// observations are stream publishers.
//
// Observers register per notification name, either with a callback or by
// subscribing to the name's Publisher:
//
//	center := notification.NewCenter(notification.WithLogger(log))
//
//	sub, err := center.AddObserver("user.signed_in", func(n notification.Notification) {
//		log.Info("notification received", logger.Event(n.Name))
//	})
//	if err != nil {
//		return err
//	}
//	defer center.RemoveObserver(sub)
//
//	center.Post("user.signed_in", user, map[string]any{"ip": ip})
//
// Publisher returns a stream.Publisher, so any stream.Subscriber can observe a
// name with its own demand:
//
//	center.Publisher("orders.created").Subscribe(stream.NewLogSubscriber[notification.Notification](log, stream.Max(10)))
//
// Close finishes every observation; later posts return ErrCenterClosed.
package notification
