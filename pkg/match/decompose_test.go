package match

import "testing"

func TestExtractNameToken(t *testing.T) {
	d := NewDecomposer(nil)

	tests := []struct {
		filename string
		want     string
	}{
		{"JohnDoe.pdf", "johndoe"},
		{"John_Doe.PDF", "johndoe"},
		{"John-Doe", "johndoe"},
		{"Certificate_John_Doe.pdf", "johndoe"},
		{"certificate-jane-smith.pdf", "janesmith"},
		{"JohnDoeCertificate.pdf", "johndoe"},
		{"Diploma_of_Maria_Lopez.pdf", "marialopez"},
		{"cert_bob.pdf", "bob"},
		{"Certificate_Document_Name.pdf", "name"},
		{"award completion Alice.pdf", "alice"},
		{"José_García_diploma.pdf", "josegarcia"},
		{"", ""},
		{".pdf", ""},
		{"certificate.pdf", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := d.ExtractNameToken(tt.filename)
			if got != tt.want {
				t.Errorf("ExtractNameToken(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestExtractNameTokenCustomVocabulary(t *testing.T) {
	d := NewDecomposer([]string{"acme", "certificate"})

	if got := d.ExtractNameToken("ACME_Certificate_John.pdf"); got != "john" {
		t.Errorf("got %q, want %q", got, "john")
	}
}

func TestStripExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a.pdf", "a"},
		{"a.PDF", "a"},
		{"a.Pdf", "a"},
		{"a.txt", "a.txt"},
		{"pdf", "pdf"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripExtension(tt.in); got != tt.want {
			t.Errorf("StripExtension(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Case mappings can change UTF-8 byte length (U+023A grows when lowered,
// U+0130 shrinks); noise words must still be stripped at the right offsets.
func TestExtractNameTokenCaseLengthChange(t *testing.T) {
	d := NewDecomposer(nil)

	tests := []struct {
		filename string
		want     string
	}{
		{"İbrahim_Certificate.pdf", "ibrahim"},
		{"Ⱥdam_Certificate.pdf", "dam"},
		{"Ⱥ_Certificate.pdf", ""},
	}
	for _, tt := range tests {
		if got := d.ExtractNameToken(tt.filename); got != tt.want {
			t.Errorf("ExtractNameToken(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

// Mid-name fragments that happen to spell a noise word must survive.
func TestNoiseWordInsideNameKept(t *testing.T) {
	d := NewDecomposer(nil)

	if got := d.ExtractNameToken("Madoc_Jones.pdf"); got != "madocjones" {
		t.Errorf("got %q, want %q", got, "madocjones")
	}
}
