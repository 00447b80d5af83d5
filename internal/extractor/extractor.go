// Package extractor turns raw social-media posts into vehicle listings.
package extractor

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/samber/lo"
)

const (
	PriceOnRequest      = "Price on request"
	DetailsNotAvailable = "Car details not available"
)

const (
	amount         = `\d{1,3}(?:[.,]?\d{3})*(?:[.,]\d{1,2})?`
	currencyMarker = `(?:€|eur|euro)`
)

// Price patterns, tried in order. Longest() makes "€15000" win over "€150".
var pricePatterns = []*regexp.Regexp{
	longest(`(?i)` + amount + `\s*` + currencyMarker),
	longest(`(?i)` + currencyMarker + `\s*` + amount),
}

func longest(expr string) *regexp.Regexp {
	re := regexp.MustCompile(expr)
	re.Longest()
	return re
}

// DefaultKeywords are the vehicle terms a post must mention to count as a
// listing. Currency words are included so price-only posts qualify.
var DefaultKeywords = []string{
	"car", "cars", "vehicle", "vehicles", "auto", "automobile", "eur", "euro",
	"alfa romeo", "audi", "bmw", "chevrolet", "citroen", "citroën", "cupra", "dacia",
	"fiat", "ford", "honda", "hyundai", "jaguar", "jeep", "kia", "land rover", "lexus",
	"mazda", "mercedes", "benz", "mini", "mitsubishi", "nissan", "opel", "peugeot",
	"porsche", "range rover", "renault", "seat", "skoda", "škoda", "subaru", "suzuki",
	"tesla", "toyota", "volkswagen", "vw", "volvo",
}

type Options struct {
	// PermalinkBase is prefixed to the post id when the post has no permalink.
	PermalinkBase string
	// ExtraKeywords extend DefaultKeywords.
	ExtraKeywords []string
}

// Extractor is safe for concurrent use; it holds only compiled patterns.
type Extractor struct {
	permalinkBase string
	keywords      *regexp.Regexp
}

func New(opts Options) *Extractor {
	return &Extractor{
		permalinkBase: opts.PermalinkBase,
		keywords:      compileKeywords(append(append([]string{}, DefaultKeywords...), opts.ExtraKeywords...)),
	}
}

func compileKeywords(words []string) *regexp.Regexp {
	quoted := lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.TrimSpace(w)
		return regexp.QuoteMeta(w), w != ""
	})
	quoted = lo.Uniq(quoted)
	// \b is ASCII-only, so a non-word rune on either side also counts as a boundary.
	return regexp.MustCompile(`(?i)€|(?:^|\b|[^\p{L}\p{N}])(?:` + strings.Join(quoted, "|") + `)(?:$|\b|[^\p{L}\p{N}])`)
}

// Extract keeps the posts that look like vehicle listings and normalizes them.
// Output order follows input order; malformed posts degrade, never fail.
func (e *Extractor) Extract(posts []domain.RawPost) []domain.ExtractedListing {
	listings := make([]domain.ExtractedListing, 0, len(posts))
	for _, post := range posts {
		if !e.IsCandidate(post) {
			continue
		}
		listings = append(listings, e.extractOne(post))
	}
	return listings
}

// IsCandidate reports whether post has an attached image and mentions a
// vehicle keyword or currency.
func (e *Extractor) IsCandidate(post domain.RawPost) bool {
	if len(attachmentImages(post)) == 0 {
		return false
	}
	if !post.HasMessage || post.Message == "" {
		return false
	}
	if e.keywords.MatchString(post.Message) {
		return true
	}
	// A price glued to its currency ("4500EUR") has no word boundary for the
	// keyword set but is still a currency mention.
	return lo.SomeBy(pricePatterns, func(re *regexp.Regexp) bool {
		return re.MatchString(post.Message)
	})
}

func (e *Extractor) extractOne(post domain.RawPost) domain.ExtractedListing {
	price := PriceOnRequest
	description := DetailsNotAvailable

	if post.HasMessage {
		text := post.Message
		if p, rest, ok := ExtractPrice(text); ok {
			price = p
			text = rest
		}
		if text = strings.TrimSpace(text); text != "" {
			description = text
		}
	}

	images := attachmentImages(post)
	if post.FullPicture != "" {
		images = append(images, post.FullPicture)
	}

	link := post.Permalink
	if link == "" {
		link = e.permalinkBase + post.ID
	}

	return domain.ExtractedListing{
		ID:          post.ID,
		Source:      post.Source,
		Images:      images,
		Description: description,
		Price:       price,
		CreatedTime: post.CreatedTime,
		Permalink:   link,
	}
}

func attachmentImages(post domain.RawPost) []string {
	return lo.FlatMap(post.Attachments, func(a domain.Attachment, _ int) []string {
		return lo.Filter(a.Images, func(src string, _ int) bool { return src != "" })
	})
}

// ExtractPrice finds the first price in text. rest is text with the price
// removed and the whitespace around the cut collapsed.
func ExtractPrice(text string) (price, rest string, ok bool) {
	for _, re := range pricePatterns {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		return text[loc[0]:loc[1]], cut(text, loc[0], loc[1]), true
	}
	return "", text, false
}

func cut(text string, start, end int) string {
	left := strings.TrimRightFunc(text[:start], unicode.IsSpace)
	right := strings.TrimLeftFunc(text[end:], unicode.IsSpace)
	if left == "" || right == "" {
		return left + right
	}

	sep := " "
	if strings.ContainsRune(text[len(left):len(text)-len(right)], '\n') {
		sep = "\n"
	}
	return left + sep + right
}
