package loader

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

const rootElement = "registry"

// checkRoot reads tokens up to the first element and requires <registry>.
func checkRoot(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return errors.New("no root element")
		}
		if err != nil {
			return fmt.Errorf("malformed XML: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			if start.Name.Local != rootElement {
				return fmt.Errorf("root element is <%s>, want <%s>", start.Name.Local, rootElement)
			}
			return nil
		}
	}
}
