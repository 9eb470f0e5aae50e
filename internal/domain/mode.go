package domain

import "fmt"

// Mode is a game discipline in which players are tested independently.
type Mode string

const (
	ModeOverall Mode = "overall"

	ModeMace    Mode = "Mace"
	ModeSword   Mode = "Sword"
	ModeUHC     Mode = "UHC"
	ModeCrystal Mode = "Crystal"
	ModeNethOP  Mode = "NethOP"
	ModeSMP     Mode = "SMP"
	ModeAxe     Mode = "Axe"
	ModeDpot    Mode = "Dpot"
)

var testedModes = []Mode{
	ModeMace,
	ModeSword,
	ModeUHC,
	ModeCrystal,
	ModeNethOP,
	ModeSMP,
	ModeAxe,
	ModeDpot,
}

// TestedModes returns the modes a player can be tested in, excluding overall
func TestedModes() []Mode {
	modes := make([]Mode, len(testedModes))
	copy(modes, testedModes)
	return modes
}

// RankingModes returns every mode rankings can be requested for, overall first
func RankingModes() []Mode {
	return append([]Mode{ModeOverall}, testedModes...)
}

func (m Mode) IsOverall() bool {
	return m == ModeOverall
}

// IsTested reports whether m is one of the concrete modes stored per player
func (m Mode) IsTested() bool {
	for _, mode := range testedModes {
		if m == mode {
			return true
		}
	}
	return false
}

// ParseRankingMode accepts overall and every tested mode. Matching is exact.
func ParseRankingMode(raw string) (Mode, error) {
	mode := Mode(raw)
	if mode.IsOverall() || mode.IsTested() {
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
}

// ParseTestedMode accepts only modes a result can be recorded for
func ParseTestedMode(raw string) (Mode, error) {
	mode := Mode(raw)
	if mode.IsTested() {
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
}
