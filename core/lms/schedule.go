package lms

// Overlaps reports whether two time ranges share at least one instant. Bounds are inclusive.
func Overlaps(start1, end1, start2, end2 TimeOfDay) bool {
	return start1 <= end2 && start2 <= end1
}

// conflictsWith reports whether cls is held at the same place and semester as other, at overlapping times.
func (cls Class) conflictsWith(other Class) bool {
	return cls.Location == other.Location &&
		cls.Season == other.Season &&
		cls.Year == other.Year &&
		Overlaps(other.Start, other.End, cls.Start, cls.End)
}
