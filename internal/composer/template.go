package composer

// GreetingVariant returns the greeting variant used for ec:
// crisis when urgent, devotional or intimate when light, formal otherwise.
func (r *ReligiousTemplate) GreetingVariant(ec EmotionalContext) string {
	switch {
	case ec.Config.Intensity == IntensityUrgent && r.hasGreeting(VariantCrisis):
		return VariantCrisis
	case ec.Config.Intensity == IntensityLight && r.hasGreeting(VariantDevotional):
		return VariantDevotional
	case ec.Config.Intensity == IntensityLight && r.hasGreeting(VariantIntimate):
		return VariantIntimate
	default:
		return VariantFormal
	}
}

// EndingVariant returns the ending variant used for ec: trust for the
// hope-and-stability focus, devotional when light, liturgical when deep,
// standard otherwise.
func (r *ReligiousTemplate) EndingVariant(ec EmotionalContext) string {
	switch {
	case ec.Config.Focus == FocusHopeAndStability && r.hasEnding(VariantTrust):
		return VariantTrust
	case ec.Config.Intensity == IntensityLight && r.hasEnding(VariantDevotional):
		return VariantDevotional
	case ec.Config.Intensity == IntensityDeep && r.hasEnding(VariantLiturgical):
		return VariantLiturgical
	default:
		return VariantStandard
	}
}

// Greeting picks a greeting for ec. The time of day is accepted so variants
// can be keyed on it later; no table uses it yet.
func (r *ReligiousTemplate) Greeting(ec EmotionalContext, _ TimeOfDay, src Source) string {
	return pick(r.greetings[r.GreetingVariant(ec)], src)
}

// Ending picks an ending for ec.
func (r *ReligiousTemplate) Ending(ec EmotionalContext, _ TimeOfDay, src Source) string {
	return pick(r.endings[r.EndingVariant(ec)], src)
}

// SelectTemplate returns a greeting and ending for religion, falling back to
// the interfaith table for unknown keys.
func (t *Tables) SelectTemplate(religion string, ec EmotionalContext, tod TimeOfDay, src Source) (greeting, ending string) {
	tmpl := t.Religion(religion)
	return tmpl.Greeting(ec, tod, src), tmpl.Ending(ec, tod, src)
}

func pick(candidates []string, src Source) string {
	if len(candidates) == 1 || src == nil {
		return candidates[0]
	}
	return candidates[src.Intn(len(candidates))]
}
