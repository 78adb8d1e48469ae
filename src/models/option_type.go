package models

import "fmt"

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
	// Unknown is assigned when a contract matched at the row level and
	// neither the call nor the put container held the hit.
	Unknown OptionType = "unknown"
)

func (o OptionType) Validate() error {
	if o != Call && o != Put {
		return fmt.Errorf("OptionType: Validate: invalid option type: %s", o)
	}

	return nil
}

// Letter returns the single uppercase side letter used inside contract symbols.
func (o OptionType) Letter() string {
	if o == Put {
		return "P"
	}

	return "C"
}
