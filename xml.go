package trajectory

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Textual trajectory form: a markup document carrying the same fields as the
// binary stream. Used when serializing with the Textual option and for any
// deserialized stream that does not start with the binary magic.
//
//	<trajectory>
//	  <configuration>
//	    <group name="..." offset="0" dof="1" interpolation="linear"/>
//	  </configuration>
//	  <data count="2">0 0 0 1 2 0.5</data>
//	  <description>...</description>
//	  <readable id="..." type="StringReadable">...</readable>
//	</trajectory>

func (t *Trajectory) serializeXML(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("<trajectory>\n<configuration>\n")
	for _, g := range t.spec.Groups {
		fmt.Fprintf(&sb, "<group name=%q offset=\"%d\" dof=\"%d\" interpolation=%q/>\n", g.Name, g.Offset, g.DOF, g.Interpolation)
	}
	sb.WriteString("</configuration>\n")
	fmt.Fprintf(&sb, "<data count=\"%d\">", t.NumWaypoints())
	for i, v := range t.data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteString("</data>\n<description>")
	xml.EscapeText(&sb, []byte(t.description))
	sb.WriteString("</description>\n")
	for _, e := range t.readables {
		body, err := e.readable.payload()
		if err != nil {
			body = ""
		}
		fmt.Fprintf(&sb, "<readable id=%q type=%q>", e.id, e.readable.readerType())
		xml.EscapeText(&sb, []byte(body))
		sb.WriteString("</readable>\n")
	}
	sb.WriteString("</trajectory>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func (t *Trajectory) deserializeXML(r io.Reader) error {
	dec := xml.NewDecoder(r)
	var spec ConfigurationSpec
	var data []Real
	var description string
	type pendingReadable struct {
		id, typ, body string
	}
	var readables []pendingReadable
	var sawTrajectory bool

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return invalidArgf("malformed textual trajectory: %v", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "trajectory":
			sawTrajectory = true
		case "group":
			var g Group
			for _, a := range start.Attr {
				switch a.Name.Local {
				case "name":
					g.Name = a.Value
				case "offset":
					g.Offset, _ = strconv.Atoi(a.Value)
				case "dof":
					g.DOF, _ = strconv.Atoi(a.Value)
				case "interpolation":
					g.Interpolation = a.Value
				}
			}
			spec.Groups = append(spec.Groups, g)
		case "data":
			var body string
			if err := dec.DecodeElement(&body, &start); err != nil {
				return invalidArgf("malformed trajectory data: %v", err)
			}
			for _, field := range strings.Fields(body) {
				v, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return invalidArgf("malformed trajectory value %q: %v", field, err)
				}
				data = append(data, v)
			}
		case "description":
			if err := dec.DecodeElement(&description, &start); err != nil {
				return invalidArgf("malformed trajectory description: %v", err)
			}
		case "readable":
			var p pendingReadable
			for _, a := range start.Attr {
				switch a.Name.Local {
				case "id":
					p.id = a.Value
				case "type":
					p.typ = a.Value
				}
			}
			if err := dec.DecodeElement(&p.body, &start); err != nil {
				return invalidArgf("malformed trajectory readable: %v", err)
			}
			readables = append(readables, p)
		}
	}
	if !sawTrajectory {
		return invalidArgf("stream is neither a binary nor a textual trajectory")
	}
	if err := t.Init(spec); err != nil {
		return err
	}
	t.data = data
	t.changed = true
	t.description = description
	t.ClearReadables()
	for _, p := range readables {
		t.SetReadable(p.id, decodeReadable(p.id, p.body, p.typ))
	}
	return nil
}
