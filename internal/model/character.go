package model

import "time"

// CharacterClass is one of the seven playable classes
type CharacterClass string

const (
	ClassAmazon      CharacterClass = "Amazon"
	ClassSorceress   CharacterClass = "Sorceress"
	ClassNecromancer CharacterClass = "Necromancer"
	ClassPaladin     CharacterClass = "Paladin"
	ClassBarbarian   CharacterClass = "Barbarian"
	ClassDruid       CharacterClass = "Druid"
	ClassAssassin    CharacterClass = "Assassin"
)

// classCodes maps classes to the byte value stored in save files
var classCodes = map[CharacterClass]byte{
	ClassAmazon:      0,
	ClassSorceress:   1,
	ClassNecromancer: 2,
	ClassPaladin:     3,
	ClassBarbarian:   4,
	ClassDruid:       5,
	ClassAssassin:    6,
}

var classIcons = map[CharacterClass]string{
	ClassAmazon:      "🏹",
	ClassSorceress:   "🔮",
	ClassNecromancer: "💀",
	ClassPaladin:     "🛡️",
	ClassBarbarian:   "⚔️",
	ClassDruid:       "🌿",
	ClassAssassin:    "🗡️",
}

// Valid reports whether the class is one of the known seven
func (c CharacterClass) Valid() bool {
	_, ok := classCodes[c]
	return ok
}

// Code returns the byte value stored in save files
func (c CharacterClass) Code() byte {
	return classCodes[c]
}

// Icon returns the display icon for the class
func (c CharacterClass) Icon() string {
	return classIcons[c]
}

// CharacterMeta is the per-character metadata kept in characters.json
type CharacterMeta struct {
	Class      CharacterClass `json:"class"`
	Level      int            `json:"level"`
	Hardcore   bool           `json:"hardcore"`
	Created    time.Time      `json:"created"`
	LastPlayed time.Time      `json:"lastPlayed"`
	Icon       string         `json:"icon"`
}

// Character pairs a character name with its metadata
type Character struct {
	Name string `json:"name"`
	CharacterMeta
}
