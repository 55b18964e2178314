package rules

// Socket is a connection point exposed on a model face.
//
// Sockets are created by a SocketCollection and are only meaningful together
// with the collection's connections.
type Socket struct {
	id int
}

// ID returns the socket's index inside its collection.
func (s Socket) ID() int { return s.id }

type socketPair struct {
	a, b int
}

// SocketCollection creates sockets and records which of them connect.
//
// Connections are symmetric: connecting a to b also connects b to a.
type SocketCollection struct {
	names   []string
	plain   map[socketPair]struct{}
	rotated map[socketPair]struct{}
}

// NewSocketCollection returns an empty collection.
func NewSocketCollection() *SocketCollection {
	return &SocketCollection{
		plain:   make(map[socketPair]struct{}),
		rotated: make(map[socketPair]struct{}),
	}
}

// Create returns a new anonymous socket.
func (c *SocketCollection) Create() Socket {
	return c.CreateNamed("")
}

// CreateNamed returns a new socket with a diagnostic name.
func (c *SocketCollection) CreateNamed(name string) Socket {
	c.names = append(c.names, name)
	return Socket{id: len(c.names) - 1}
}

// Len returns the number of sockets created so far.
func (c *SocketCollection) Len() int { return len(c.names) }

// Name returns the diagnostic name of s.
func (c *SocketCollection) Name(s Socket) string {
	if s.id < 0 || s.id >= len(c.names) {
		return ""
	}
	return c.names[s.id]
}

// Connect declares that from connects to every socket in to.
func (c *SocketCollection) Connect(from Socket, to ...Socket) *SocketCollection {
	for _, s := range to {
		c.plain[socketPair{from.id, s.id}] = struct{}{}
		c.plain[socketPair{s.id, from.id}] = struct{}{}
	}
	return c
}

// ConnectRotated declares a connection between axis faces that only holds
// when both variants have the same rotation.
func (c *SocketCollection) ConnectRotated(from Socket, to ...Socket) *SocketCollection {
	for _, s := range to {
		c.rotated[socketPair{from.id, s.id}] = struct{}{}
		c.rotated[socketPair{s.id, from.id}] = struct{}{}
	}
	return c
}

// ConnectionCount returns the number of declared undirected connections.
func (c *SocketCollection) ConnectionCount() int {
	n := 0
	for p := range c.plain {
		if p.a <= p.b {
			n++
		}
	}
	for p := range c.rotated {
		if p.a <= p.b {
			n++
		}
	}
	return n
}

func (c *SocketCollection) connected(a, b Socket) bool {
	_, ok := c.plain[socketPair{a.id, b.id}]
	return ok
}

func (c *SocketCollection) connectedRotated(a, b Socket) bool {
	_, ok := c.rotated[socketPair{a.id, b.id}]
	return ok
}

func (c *SocketCollection) owns(s Socket) bool {
	return s.id >= 0 && s.id < len(c.names)
}
