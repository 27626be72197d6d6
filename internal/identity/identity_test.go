package identity

import "testing"

func TestExtractEmailLowercasesFirstMatch(t *testing.T) {
	text := "John Doe\nContact: John.Doe@Example.COM or backup@other.org\n"
	if got := ExtractEmail(text); got != "john.doe@example.com" {
		t.Fatalf("ExtractEmail = %q, want john.doe@example.com", got)
	}
}

func TestExtractEmailMissing(t *testing.T) {
	if got := ExtractEmail("no contact details here"); got != "" {
		t.Fatalf("ExtractEmail = %q, want empty", got)
	}
}

func TestExtractPhoneFormats(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"plus us", "Phone: +1-555-123-4567", "+1-555-123-4567"},
		{"corrupted punctuation", "Tel ?1?555?123?4567 mobile", "+1-555-123-4567"},
		{"bare local digits only", "Call 555-123-4567 anytime", "5551234567"},
		{"dots", "call +1.555.123.4567", "+1-555-123-4567"},
		{"none", "no digits worth mentioning", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractPhone(tc.text); got != tc.want {
				t.Fatalf("ExtractPhone(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	once := NormalizePhone("+1 (555) 123-4567")
	if once != "+1-555-123-4567" {
		t.Fatalf("NormalizePhone = %q, want +1-555-123-4567", once)
	}
	if twice := NormalizePhone(once); twice != once {
		t.Fatalf("NormalizePhone not idempotent: %q then %q", once, twice)
	}
}

func TestExtractNameSkipsHeaders(t *testing.T) {
	text := "Resume\n\nJohn Doe\nSenior Engineer\n"
	if got := ExtractName(text); got != "John Doe" {
		t.Fatalf("ExtractName = %q, want John Doe", got)
	}
}

func TestExtractNameLooseFallback(t *testing.T) {
	text := "JOHN DOE\njohn@example.com\n"
	if got := ExtractName(text); got != "JOHN DOE" {
		t.Fatalf("ExtractName = %q, want JOHN DOE", got)
	}
}

func TestExtractNameOnlyFirstFiveLines(t *testing.T) {
	text := "1\n2\n3\n4\n5\nJohn Doe\n"
	if got := ExtractName(text); got != "" {
		t.Fatalf("ExtractName = %q, want empty", got)
	}
}

func TestNameFromFilename(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"John Doe_Resume.pdf", "John Doe"},
		{"John_Doe_Resume.pdf", "John Doe"},
		{"JohnDoe-CV.docx", "John Doe"},
		{"Jane_Smith.pdf", "Jane Smith"},
		{"resume_scan.pdf", "resume scan"},
	}
	for _, tc := range cases {
		if got := NameFromFilename(tc.filename); got != tc.want {
			t.Fatalf("NameFromFilename(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestFallbackNameFromFilename(t *testing.T) {
	if got := FallbackNameFromFilename("jane-doe_2024.pdf"); got != "jane doe 2024" {
		t.Fatalf("FallbackNameFromFilename = %q, want %q", got, "jane doe 2024")
	}
}
