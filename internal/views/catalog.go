// Package views defines the frames a user can see and renders them as
// Farcaster frame HTML.
package views

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pendergraft/framemint/internal/chains"
)

// Name identifies a view.
type Name string

const (
	Initial        Name = "initial"
	InputError     Name = "input_error"
	MintingError   Name = "minting_error"
	UnknownError   Name = "unknown_error"
	InitialSuccess Name = "initial_success"
	Pending        Name = "pending"
	Success        Name = "success"
)

// Names lists every view.
var Names = []Name{Initial, InputError, MintingError, UnknownError, InitialSuccess, Pending, Success}

// Button actions.
const (
	ActionPost = "post"
	ActionLink = "link"
)

// FramePath is the route that receives frame button posts.
const FramePath = "/api/frame"

// SampleActionID stands in for a Crossmint action id when a view is
// rendered outside a mint.
const SampleActionID = "00000000-0000-4000-8000-000000000000"

// Image is a frame image.
type Image struct {
	Src         string
	AspectRatio string
}

// Button is a frame button. Target is the link destination for link
// buttons and an optional per-button post URL for post buttons.
type Button struct {
	Label  string
	Action string
	Target string
}

// Frame is a rendering-ready view.
type Frame struct {
	Name    Name
	Title   string
	Image   Image
	Input   string
	Buttons []Button
	PostURL string
}

// Catalog builds frames with absolute URLs for one deployment.
type Catalog struct {
	publicURL    string
	crossmintEnv string
	overrides    map[Name]ViewOverride
}

// NewCatalog creates a Catalog. overrides may be nil.
func NewCatalog(publicURL, crossmintEnv string, overrides *Overrides) *Catalog {
	c := &Catalog{
		publicURL:    strings.TrimRight(publicURL, "/"),
		crossmintEnv: crossmintEnv,
		overrides:    map[Name]ViewOverride{},
	}
	if overrides != nil {
		for k, v := range overrides.Views {
			c.overrides[k] = v
		}
	}
	return c
}

// Get returns a view by name using placeholder data for views that need
// an action id or explorer link.
func (c *Catalog) Get(name Name) (Frame, error) {
	switch name {
	case Initial:
		return c.Initial(), nil
	case InputError:
		return c.InputError(), nil
	case MintingError:
		return c.MintingError(), nil
	case UnknownError:
		return c.UnknownError(), nil
	case InitialSuccess:
		return c.InitialSuccess(false, SampleActionID), nil
	case Pending:
		return c.Pending(SampleActionID), nil
	case Success:
		return c.Success(c.CollectionURL()), nil
	}
	return Frame{}, fmt.Errorf("unknown view %q", name)
}

// Initial is the entry view: a text input and one button per chain, in
// the order chains.FromButton maps them.
func (c *Catalog) Initial() Frame {
	all := chains.All()
	buttons := make([]Button, 0, len(all))
	for _, ch := range all {
		buttons = append(buttons, Button{Label: ch.DisplayName(), Action: ActionPost})
	}
	return c.frame(Initial, Frame{
		Title:   "Mint this NFT",
		Image:   c.image("nft.jpg"),
		Input:   "Enter email or wallet address",
		Buttons: buttons,
		PostURL: c.PostURL("", ""),
	})
}

// InputError is shown when the recipient or chain choice was rejected.
func (c *Catalog) InputError() Frame {
	return c.errorFrame(InputError, "input-error.jpg")
}

// MintingError is shown when Crossmint refused the mint.
func (c *Catalog) MintingError() Frame {
	return c.errorFrame(MintingError, "minting-error.jpg")
}

// UnknownError is shown for every other failure.
func (c *Catalog) UnknownError() Frame {
	return c.errorFrame(UnknownError, "error.jpg")
}

// InitialSuccess is shown right after Crossmint accepted a mint. Email
// mints link to the Crossmint collection page; wallet mints poll for the
// transaction.
func (c *Catalog) InitialSuccess(email bool, actionID string) Frame {
	if email {
		return c.frame(InitialSuccess, Frame{
			Title: "Mint this NFT",
			Image: c.image("success.jpg"),
			Buttons: []Button{
				{Label: "View your NFT on Crossmint", Action: ActionLink, Target: c.CollectionURL()},
				{Label: "Restart", Action: ActionPost},
			},
			PostURL: c.PostURL("reload", actionID),
		})
	}
	return c.frame(InitialSuccess, Frame{
		Title: "Mint this NFT",
		Image: c.image("success.jpg"),
		Buttons: []Button{
			{Label: "Refresh for minting status", Action: ActionPost},
		},
		PostURL: c.PostURL("refresh", actionID),
	})
}

// Pending is shown while the mint transaction has not settled.
func (c *Catalog) Pending(actionID string) Frame {
	return c.frame(Pending, Frame{
		Title: "Mint this NFT",
		Image: c.image("pending.jpg"),
		Buttons: []Button{
			{Label: "Refresh", Action: ActionPost},
			{Label: "Restart", Action: ActionPost, Target: c.PostURL("reload", "")},
		},
		PostURL: c.PostURL("refresh", actionID),
	})
}

// Success is shown once the mint transaction is on chain.
func (c *Catalog) Success(explorerURL string) Frame {
	if explorerURL == "" {
		explorerURL = c.CollectionURL()
	}
	return c.frame(Success, Frame{
		Title: "Mint this NFT",
		Image: c.image("success.jpg"),
		Buttons: []Button{
			{Label: "View Transaction", Action: ActionLink, Target: explorerURL},
			{Label: "Restart", Action: ActionPost},
		},
		PostURL: c.PostURL("reload", ""),
	})
}

// PostURL returns the frame endpoint URL for an action and action id.
// Empty values are omitted.
func (c *Catalog) PostURL(action, actionID string) string {
	u := c.publicURL + FramePath
	q := make([]string, 0, 2)
	if action != "" {
		q = append(q, "action="+url.QueryEscape(action))
	}
	if actionID != "" {
		q = append(q, "actionId="+url.QueryEscape(actionID))
	}
	if len(q) == 0 {
		return u
	}
	return u + "?" + strings.Join(q, "&")
}

// CollectionURL is the Crossmint page listing a user's NFTs.
func (c *Catalog) CollectionURL() string {
	return fmt.Sprintf("https://%s.crossmint.com/user/collection", c.crossmintEnv)
}

func (c *Catalog) errorFrame(name Name, image string) Frame {
	return c.frame(name, Frame{
		Title:   "Error",
		Image:   c.image(image),
		Buttons: []Button{{Label: "Restart", Action: ActionPost}},
		PostURL: c.PostURL("reload", ""),
	})
}

func (c *Catalog) image(file string) Image {
	return Image{Src: c.publicURL + "/" + file, AspectRatio: "1:1"}
}

// frame stamps the name and applies configured overrides.
func (c *Catalog) frame(name Name, f Frame) Frame {
	f.Name = name
	o, ok := c.overrides[name]
	if !ok {
		return f
	}
	if o.Image != "" {
		f.Image.Src = c.resolveAsset(o.Image)
	}
	if o.AspectRatio != "" {
		f.Image.AspectRatio = o.AspectRatio
	}
	if o.Title != "" {
		f.Title = o.Title
	}
	if o.Input != "" && f.Input != "" {
		f.Input = o.Input
	}
	return f
}

func (c *Catalog) resolveAsset(src string) string {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	return c.publicURL + "/" + strings.TrimLeft(src, "/")
}
