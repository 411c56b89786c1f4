package vt

// applySGR interprets a list of SGR parameters left-to-right. Unknown
// parameters are ignored without aborting the rest of the list.
func (t *Terminal) applySGR(params []int) {
	if len(params) == 0 {
		t.style = DefaultStyle
		return
	}
	i := 0
	for i < len(params) {
		n := params[i]
		switch {
		case n == 0:
			t.style = DefaultStyle
		case n == 1:
			t.style.Bold = true
		case n == 2:
			t.style.Dim = true
		case n == 3:
			t.style.Italic = true
		case n == 4:
			t.style.Underline = true
		case n == 7:
			t.style.Reverse = true
		case n == 22:
			t.style.Bold, t.style.Dim = false, false
		case n == 23:
			t.style.Italic = false
		case n == 24:
			t.style.Underline = false
		case n == 27:
			t.style.Reverse = false
		case n >= 30 && n <= 37:
			t.style.Fg = NamedColor(uint8(n - 30))
		case n == 38:
			consumed := t.applyExtendedColor(params[i:], true)
			i += consumed
			continue
		case n == 39:
			t.style.Fg = DefaultColor
		case n >= 40 && n <= 47:
			t.style.Bg = NamedColor(uint8(n - 40))
		case n == 48:
			consumed := t.applyExtendedColor(params[i:], false)
			i += consumed
			continue
		case n == 49:
			t.style.Bg = DefaultColor
		case n >= 90 && n <= 97:
			t.style.Fg = NamedColor(uint8(n - 90 + 8))
		case n >= 100 && n <= 107:
			t.style.Bg = NamedColor(uint8(n - 100 + 8))
		}
		i++
	}
}

// applyExtendedColor handles the `38;5;n` / `38;2;r;g;b` (and 48-prefixed
// background equivalents) extended color forms, returning how many
// parameters (including the leading 38/48) were consumed.
func (t *Terminal) applyExtendedColor(params []int, isFg bool) int {
	if len(params) < 2 {
		return len(params)
	}
	switch params[1] {
	case 5:
		if len(params) < 3 {
			return len(params)
		}
		col := IndexedColor(uint8(params[2]))
		if isFg {
			t.style.Fg = col
		} else {
			t.style.Bg = col
		}
		return 3
	case 2:
		if len(params) < 5 {
			return len(params)
		}
		col := RGBColor(uint8(params[2]), uint8(params[3]), uint8(params[4]))
		if isFg {
			t.style.Fg = col
		} else {
			t.style.Bg = col
		}
		return 5
	default:
		return 2
	}
}
