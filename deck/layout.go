package deck

// titleFontThreshold is the minimum font size, in points, for a lone
// text element to be treated as a title slide.
const titleFontThreshold = 40

// Classify assigns a layout to an element list. Rules are evaluated in
// precedence order and the first match wins:
//
//  1. exactly one text element with font size above 40pt -> title
//  2. more than 3 text elements, each starting with a digit or shorter
//     than 50 characters -> agenda
//  3. at least one image and one text element -> split
//  4. otherwise -> content
//
// The result is a rendering hint only; it is a pure function of the
// element list.
func Classify(elements []Element) Layout {
	var texts []Element
	images := 0
	for _, el := range elements {
		if el.Kind == KindImage {
			images++
			continue
		}
		texts = append(texts, el)
	}

	if len(texts) == 1 && texts[0].Text != nil && texts[0].Text.FontSize > titleFontThreshold {
		return LayoutTitle
	}

	if len(texts) > 3 && allAgendaLike(texts) {
		return LayoutAgenda
	}

	if images > 0 && len(texts) > 0 {
		return LayoutSplit
	}

	return LayoutContent
}

func allAgendaLike(texts []Element) bool {
	for _, el := range texts {
		content := el.Content()
		if startsWithDigit(content) {
			continue
		}
		if len(content) < 50 {
			continue
		}
		return false
	}
	return true
}

func startsWithDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}
