package termo

// Fit returns the feedback the puzzle shows for guess when the answer is hidden.
//
// Pass 1 marks exact matches as Right and counts the hidden letters that were
// not matched. Pass 2 walks the remaining positions left to right and spends
// that count on Place, so when a guess repeats a letter more often than the
// hidden word holds it, the leftmost copies get Place and the rest Wrong.
func Fit(guess, hidden Word) Pattern {
	var p Pattern
	var remaining [alphabetSize]uint8

	for i := 0; i < WordLen; i++ {
		if guess[i] == hidden[i] {
			p[i] = Right
			continue
		}
		p[i] = Wrong
		remaining[hidden[i]-'a']++
	}

	for i := 0; i < WordLen; i++ {
		if p[i] == Right {
			continue
		}
		if c := guess[i] - 'a'; remaining[c] > 0 {
			remaining[c]--
			p[i] = Place
		}
	}
	return p
}
