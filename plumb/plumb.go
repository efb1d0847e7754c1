package plumb

/* Port broadcasts events to subscribers. Subscriptions are keyed by an
 * opaque origin so a subscriber doesn't need to keep its channel around
 * to unsubscribe. */
type Port struct {
	C chan<- interface{}
	c chan interface{}
	sub chan subscription
	unsub chan interface{}
}

type subscription struct {
	origin interface{}
	c chan interface{}
}

func MkPort() *Port {
	port := Port{c: make(chan interface{})}
	port.C = port.c
	port.sub = make(chan subscription)
	port.unsub = make(chan interface{})
	go port.broadcast()
	return &port
}

func (port *Port) Sub(origin interface{}, c chan interface{}) {
	port.sub <- subscription{origin, c}
}

func (port *Port) Unsub(origin interface{}) {
	port.unsub <- origin
}

/* Close shuts the port down; all subscriber channels are closed. */
func (port *Port) Close() {
	close(port.c)
}

func (port *Port) broadcast() {
	subs := make(map[interface{}]chan interface{})
	for {
		select {
		case s := <-port.sub:
			subs[s.origin] = s.c
		case origin := <-port.unsub:
			if c, ok := subs[origin]; ok {
				close(c)
				delete(subs, origin)
			}
		case ev, ok := <-port.c:
			if !ok {
				for _, c := range subs {
					close(c)
				}
				return
			}
			for _, c := range subs {
				c <- ev
			}
		}
	}
}
