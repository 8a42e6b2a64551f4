package character

import (
	"encoding/binary"

	"github.com/dgrudge/lobby/internal/model"
)

// Save file layout constants (1.10-era format, simplified)
const (
	saveFileSize  = 765
	saveSignature = 0xAA55AA55
	saveVersion   = 71 // 1.10

	offSignature   = 0
	offVersion     = 4
	offFileSize    = 8
	offChecksum    = 12
	offWeaponSet   = 16
	offName        = 20
	offStatusFlags = 36
	offProgression = 37
	offClass       = 40
	offLevel       = 43
	offDifficulty  = 168

	statusHardcore = 0x04
)

// encodeSaveFile builds a fresh level-1 save for a new character. Only the
// header fields the game checks at character-select are populated; the
// checksum is left zero as the game recomputes it on first write.
func encodeSaveFile(name string, class model.CharacterClass, hardcore bool) []byte {
	buf := make([]byte, saveFileSize)

	binary.LittleEndian.PutUint32(buf[offSignature:], saveSignature)
	binary.LittleEndian.PutUint32(buf[offVersion:], saveVersion)
	binary.LittleEndian.PutUint32(buf[offFileSize:], saveFileSize)
	binary.LittleEndian.PutUint32(buf[offChecksum:], 0)
	binary.LittleEndian.PutUint32(buf[offWeaponSet:], 0)

	// Name: at most 15 ASCII bytes, NUL-padded
	nameBytes := []byte(name)
	if len(nameBytes) > maxNameLength {
		nameBytes = nameBytes[:maxNameLength]
	}
	copy(buf[offName:], nameBytes)

	var status byte
	if hardcore {
		status |= statusHardcore
	}
	buf[offStatusFlags] = status
	buf[offProgression] = 0
	buf[offClass] = class.Code()
	buf[offLevel] = 1
	buf[offDifficulty] = 0

	return buf
}
