package selection

import (
	"dexadash/domain/scan"
	"dexadash/internal/errors"

	"github.com/tidwall/gjson"
)

// KindBodyPartButton tags a press on one body part filter button
const KindBodyPartButton = "body-part-button"

// ToggleEvent is the decoded payload of a filter button press, e.g.
// {"kind":"body-part-button","index":"Left Arm"}
type ToggleEvent struct {
	Kind  string        `json:"kind"`
	Index scan.BodyPart `json:"index"`
}

// ParseToggleEvent decodes and validates a raw event payload
func ParseToggleEvent(payload []byte) (ToggleEvent, error) {
	if !gjson.ValidBytes(payload) {
		return ToggleEvent{}, errors.InvalidInput("toggle event is not valid JSON")
	}

	kind := gjson.GetBytes(payload, "kind")
	if kind.Type != gjson.String || kind.String() != KindBodyPartButton {
		return ToggleEvent{}, errors.InvalidInput("toggle event kind must be \"" + KindBodyPartButton + "\"")
	}

	index := gjson.GetBytes(payload, "index")
	if index.Type != gjson.String {
		return ToggleEvent{}, errors.InvalidInput("toggle event index must be a body part name")
	}

	part, err := scan.ParseBodyPart(index.String())
	if err != nil {
		return ToggleEvent{}, errors.WithCode(errors.CodeInvalidInput, err)
	}

	return ToggleEvent{Kind: KindBodyPartButton, Index: part}, nil
}
