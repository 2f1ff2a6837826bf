package stopword

// Korean returns the built-in Korean stopword list: particles, copulas
// and other grammatical forms too generic to carry content.
func Korean() []string {
	return []string{
		"이", "그", "저", "것", "수", "등", "들", "및", "에", "에서",
		"의", "을", "를", "이다", "있다", "하다", "이런", "그런", "저런",
		"한", "와", "과", "으로", "로", "에게", "뿐", "다", "도", "만",
		"까지", "에는", "랑", "이라", "며", "거나", "에도", "든지",
	}
}
