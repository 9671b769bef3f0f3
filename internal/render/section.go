package render

import (
	"github.com/dgallion1/reportgen/internal/report"
	"github.com/dgallion1/reportgen/internal/style"
)

// Env carries what a section needs besides its own title and text
// styles: the caption and table roles, the image loader, and a sink for
// errors that only affect one content item.
type Env struct {
	Roles  style.Roles
	Images ImageLoader
	Warn   func(err error)
}

func (e Env) warn(err error) {
	if e.Warn != nil {
		e.Warn(err)
	}
}

// RenderSection renders one node: its label, each content item in order,
// and a trailing spacer paragraph. It does not descend; the returned
// children are left to the caller. Table shape and image errors are
// passed to env.Warn and rendering continues; a dangling picture or table
// reference returns *SchemaError.
func RenderSection(s Surface, node *report.Section, title, text, emphasis style.Record, env Env) ([]*report.Section, error) {
	if node.Label != "" {
		if err := RenderParagraph(s, node.Label, title, title); err != nil {
			return nil, err
		}
	}

	for _, item := range node.Content {
		switch item.Kind {
		case report.ItemPicture:
			spec, ok := node.Pics[item.Value]
			if !ok {
				return nil, &SchemaError{Section: node.Label, Key: item.Value, Reason: "undefined picture"}
			}
			if err := RenderPicture(s, spec, env.Images, env.Roles.Pic); err != nil {
				if !IsRecoverable(err) {
					return nil, err
				}
				env.warn(err)
			}

		case report.ItemTable:
			spec, ok := node.Tables[item.Value]
			if !ok {
				return nil, &SchemaError{Section: node.Label, Key: item.Value, Reason: "undefined table"}
			}
			if err := RenderParagraph(s, spec.Name, env.Roles.Pic, env.Roles.Pic); err != nil {
				return nil, err
			}
			if err := RenderTable(s, spec, env.Roles.TableHeader, env.Roles.TableCell); err != nil {
				if !IsRecoverable(err) {
					return nil, err
				}
				env.warn(err)
			}
			EmptyParagraph(s)

		default:
			if err := RenderParagraph(s, item.Value, text, emphasis); err != nil {
				return nil, err
			}
		}
	}

	EmptyParagraph(s)
	return node.Children, nil
}
