// tracks/message.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tracks

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"
)

// Track is a single named track: an ordered sequence of waypoint
// identifiers and coordinate tokens.
type Track struct {
	Ident     string
	Route     []string
	ValidFrom time.Time
	ValidTo   time.Time
}

// Section is the part of a track message for one direction of travel.
type Section struct {
	Name        string
	Header      string
	Message     string
	LastUpdated time.Time
	Tracks      []Track
}

// Message holds the tracks of a track system along with the text of the
// messages they were published in.
type Message struct {
	System    System
	Westbound Section
	Eastbound Section
}

var sectionKeys = [2]string{"westbound", "eastbound"}

// Sections returns the westbound and eastbound sections, in that order.
func (m *Message) Sections() []*Section {
	return []*Section{&m.Westbound, &m.Eastbound}
}

// TrackCount returns the total number of tracks in the message.
func (m *Message) TrackCount() int {
	return len(m.Westbound.Tracks) + len(m.Eastbound.Tracks)
}

func formatUpdated(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format(time.RFC3339)
}

// String returns the message as it is shown to the user.
func (m *Message) String() string {
	var sb strings.Builder
	sb.WriteString(m.Westbound.Header)
	fmt.Fprintf(&sb, "\n\nWestbound tracks (%s):\n\n", formatUpdated(m.Westbound.LastUpdated))
	sb.WriteString(m.Westbound.Message)
	fmt.Fprintf(&sb, "\n\nEastbound tracks (%s):\n\n", formatUpdated(m.Eastbound.LastUpdated))
	sb.WriteString(m.Eastbound.Message)
	return sb.String()
}

///////////////////////////////////////////////////////////////////////////
// XML

type xmlContent struct {
	XMLName     xml.Name   `xml:"Content"`
	TrackSystem string     `xml:"TrackSystem"`
	Westbound   xmlSection `xml:"Westbound"`
	Eastbound   xmlSection `xml:"Eastbound"`
}

type xmlSection struct {
	Header      string     `xml:"Header"`
	Message     string     `xml:"Message"`
	LastUpdated string     `xml:"LastUpdated,omitempty"`
	Tracks      []xmlTrack `xml:"Tracks>Track"`
}

type xmlTrack struct {
	Ident     string `xml:"Ident,attr"`
	ValidFrom string `xml:"ValidFrom,attr,omitempty"`
	ValidTo   string `xml:"ValidTo,attr,omitempty"`
	Route     string `xml:",chardata"`
}

func formatXMLTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseXMLTime(s string) (time.Time, error) {
	if s = strings.TrimSpace(s); s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func (s *Section) toXML() xmlSection {
	xs := xmlSection{
		Header:      s.Header,
		Message:     s.Message,
		LastUpdated: formatXMLTime(s.LastUpdated),
	}
	for _, t := range s.Tracks {
		xs.Tracks = append(xs.Tracks, xmlTrack{
			Ident:     t.Ident,
			ValidFrom: formatXMLTime(t.ValidFrom),
			ValidTo:   formatXMLTime(t.ValidTo),
			Route:     strings.Join(t.Route, " "),
		})
	}
	return xs
}

func (xs *xmlSection) section(name string) (Section, error) {
	s := Section{Name: name, Header: xs.Header, Message: xs.Message}

	var err error
	if s.LastUpdated, err = parseXMLTime(xs.LastUpdated); err != nil {
		return Section{}, fmt.Errorf("%s: LastUpdated: %w", name, err)
	}

	for _, xt := range xs.Tracks {
		t := Track{Ident: strings.TrimSpace(xt.Ident), Route: strings.Fields(xt.Route)}
		if t.Ident == "" {
			return Section{}, fmt.Errorf("%s: track without an identifier", name)
		}
		if t.ValidFrom, err = parseXMLTime(xt.ValidFrom); err != nil {
			return Section{}, fmt.Errorf("%s: track %s: ValidFrom: %w", name, t.Ident, err)
		}
		if t.ValidTo, err = parseXMLTime(xt.ValidTo); err != nil {
			return Section{}, fmt.Errorf("%s: track %s: ValidTo: %w", name, t.Ident, err)
		}
		s.Tracks = append(s.Tracks, t)
	}

	return s, nil
}

// ToXML returns the message as an XML document that ParseMessage can read
// back.
func (m *Message) ToXML() ([]byte, error) {
	c := xmlContent{
		TrackSystem: m.System.String(),
		Westbound:   m.Westbound.toXML(),
		Eastbound:   m.Eastbound.toXML(),
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ParseMessage reads a track message in the XML form written by ToXML.
func ParseMessage(r io.Reader) (*Message, error) {
	var c xmlContent
	if err := xml.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}

	sys, err := ParseSystem(c.TrackSystem)
	if err != nil {
		return nil, err
	}

	m := &Message{System: sys}
	if m.Westbound, err = c.Westbound.section("Westbound"); err != nil {
		return nil, err
	}
	if m.Eastbound, err = c.Eastbound.section("Eastbound"); err != nil {
		return nil, err
	}
	return m, nil
}

// TracksJSON returns a JSON summary of the tracks in the message. Keys
// are kept in message order so that the tracks are listed as published.
func (m *Message) TracksJSON() ([]byte, error) {
	om := orderedmap.New()
	om.Set("system", m.System.String())

	for i, s := range m.Sections() {
		so := orderedmap.New()
		if !s.LastUpdated.IsZero() {
			so.Set("lastUpdated", s.LastUpdated.UTC().Format(time.RFC3339))
		}

		tracks := orderedmap.New()
		for _, t := range s.Tracks {
			tracks.Set(t.Ident, strings.Join(t.Route, " "))
		}
		so.Set("tracks", tracks)

		om.Set(sectionKeys[i], so)
	}

	return json.Marshal(om)
}
