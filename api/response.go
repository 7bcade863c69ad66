package api

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one element of a parsed API response. The service's responses are
// shallow, irregular XML, so they are kept as a generic tree rather than
// typed per-method structs.
type Node struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

// All returns every direct child element named name, in document order.
// The result is always a sequence, even when the service sent a single
// element; callers index by position without caring how many arrived.
func (n *Node) All(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// First returns the first direct child named name, or nil.
func (n *Node) First(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(key string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[key]
}

// ChildText returns the character data of the first child named name, or
// "" when the child is absent.
func (n *Node) ChildText(name string) string {
	if c := n.First(name); c != nil {
		return c.Text
	}
	return ""
}

// Response is the parsed <rsp> envelope every REST call returns.
type Response struct {
	*Node
}

// Status reports the envelope's stat attribute, "ok" or "fail".
func (r *Response) Status() string {
	return r.Attr("stat")
}

// Err returns the service-reported error, or nil when the response
// succeeded.
func (r *Response) Err() *ServiceError {
	e := r.First("err")
	if e == nil {
		return nil
	}
	return &ServiceError{Code: e.Attr("code"), Msg: e.Attr("msg")}
}

// Transaction returns the transaction marker attached to mutating
// operations: the transaction id and whether the service allows undoing it.
func (r *Response) Transaction() (id string, undoable bool) {
	tx := r.First("transaction")
	if tx == nil {
		return "", false
	}
	return tx.Attr("id"), tx.Attr("undoable") == "1"
}

// ParseResponse reads an XML response body into its generic tree form. The
// root element must be the <rsp> envelope.
func ParseResponse(r io.Reader) (*Response, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		root, err := parseElement(dec, start)
		if err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		if root.Name != "rsp" {
			return nil, fmt.Errorf("parse response: unexpected root element %q", root.Name)
		}
		return &Response{Node: root}, nil
	}
}

func parseElement(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	n := &Node{Name: start.Name.Local, Attrs: make(map[string]string, len(start.Attr))}
	for _, a := range start.Attr {
		n.Attrs[a.Name.Local] = a.Value
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case xml.CharData:
			n.Text += strings.TrimSpace(string(t))
		case xml.EndElement:
			return n, nil
		}
	}
}
