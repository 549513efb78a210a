/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package input

// Scancode is a PC set 1 make code. Break codes have KeyUpMask set.
type Scancode byte

const KeyUpMask Scancode = 0x80

const (
	ScanInvalid Scancode = iota
	ScanEscape
	Scan1
	Scan2
	Scan3
	Scan4
	Scan5
	Scan6
	Scan7
	Scan8
	Scan9
	Scan0
	ScanMinus
	ScanEqual
	ScanBackspace
	ScanTab
	ScanQ
	ScanW
	ScanE
	ScanR
	ScanT
	ScanY
	ScanU
	ScanI
	ScanO
	ScanP
	ScanLBracket
	ScanRBracket
	ScanEnter
	ScanControl
	ScanA
	ScanS
	ScanD
	ScanF
	ScanG
	ScanH
	ScanJ
	ScanK
	ScanL
	ScanSemicolon
	ScanQuote
	ScanBackquote
	ScanLShift
	ScanBackslash
	ScanZ
	ScanX
	ScanC
	ScanV
	ScanB
	ScanN
	ScanM
	ScanComma
	ScanPeriod
	ScanSlash
	ScanRShift
	ScanPrint
	ScanAlt
	ScanSpace
	ScanCapslock
	ScanF1
	ScanF2
	ScanF3
	ScanF4
	ScanF5
	ScanF6
	ScanF7
	ScanF8
	ScanF9
	ScanF10
	ScanNumlock
	ScanScrlock
	ScanKPHome
	ScanKPUp
	ScanKPPageup
	ScanKPMinus
	ScanKPLeft
	ScanKP5
	ScanKPRight
	ScanKPPlus
	ScanKPEnd
	ScanKPDown
	ScanKPPagedown
	ScanKPInsert
	ScanKPDelete
	ScanF11 Scancode = 0x57
	ScanF12 Scancode = 0x58
)

// Keys sharing a scancode on a US layout, unshifted and shifted.
var scanRows = []struct {
	scan  Scancode
	chars string
}{
	{Scan1, "1!"}, {Scan2, "2@"}, {Scan3, "3#"}, {Scan4, "4$"}, {Scan5, "5%"},
	{Scan6, "6^"}, {Scan7, "7&"}, {Scan8, "8*"}, {Scan9, "9("}, {Scan0, "0)"},
	{ScanMinus, "-_"}, {ScanEqual, "=+"}, {ScanLBracket, "[{"}, {ScanRBracket, "]}"},
	{ScanSemicolon, ";:"}, {ScanQuote, "'\""}, {ScanBackquote, "`~"},
	{ScanBackslash, "\\|"}, {ScanComma, ",<"}, {ScanPeriod, ".>"}, {ScanSlash, "/?"},
	{ScanSpace, " "},
}

var letterScan = [26]Scancode{
	ScanA, ScanB, ScanC, ScanD, ScanE, ScanF, ScanG, ScanH, ScanI, ScanJ, ScanK, ScanL, ScanM,
	ScanN, ScanO, ScanP, ScanQ, ScanR, ScanS, ScanT, ScanU, ScanV, ScanW, ScanX, ScanY, ScanZ,
}

var runeScan = buildRuneScan()

func buildRuneScan() map[rune]Scancode {
	m := make(map[rune]Scancode, 96)
	for _, row := range scanRows {
		for _, r := range row.chars {
			m[r] = row.scan
		}
	}
	for i, s := range letterScan {
		m[rune('a'+i)] = s
		m[rune('A'+i)] = s
	}
	return m
}

var keyScan = map[Key]Scancode{
	KeyBackspace: ScanBackspace,
	KeyTab:       ScanTab,
	KeyEnter:     ScanEnter,
	KeyEscape:    ScanEscape,
	KeyDelete:    ScanKPDelete,
	KeyLeft:      ScanKPLeft,
	KeyRight:     ScanKPRight,
	KeyUp:        ScanKPUp,
	KeyDown:      ScanKPDown,
	KeyInsert:    ScanKPInsert,
	KeyHome:      ScanKPHome,
	KeyEnd:       ScanKPEnd,
	KeyPageUp:    ScanKPPageup,
	KeyPageDown:  ScanKPPagedown,
	KeyPrint:     ScanPrint,
	KeyF1:        ScanF1,
	KeyF2:        ScanF2,
	KeyF3:        ScanF3,
	KeyF4:        ScanF4,
	KeyF5:        ScanF5,
	KeyF6:        ScanF6,
	KeyF7:        ScanF7,
	KeyF8:        ScanF8,
	KeyF9:        ScanF9,
	KeyF10:       ScanF10,
	KeyF11:       ScanF11,
	KeyF12:       ScanF12,
}

// ScancodeOf returns the make code for a key, or ScanInvalid.
func ScancodeOf(k Key) Scancode {
	if s, ok := keyScan[k]; ok {
		return s
	}
	return runeScan[rune(k)]
}

// NeedsShift reports whether a printable key is the shifted symbol of its
// scancode.
func NeedsShift(k Key) bool {
	if k >= 'A' && k <= 'Z' {
		return true
	}
	for _, row := range scanRows {
		if len(row.chars) == 2 && rune(row.chars[1]) == rune(k) {
			return true
		}
	}
	return false
}
