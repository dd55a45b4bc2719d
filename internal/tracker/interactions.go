package tracker

import (
	"context"

	"example.com/travelanalytics/internal/normalize"
)

func (t *Tracker) SignUp(ctx context.Context, method string) {
	t.send(ctx, normalize.SignUp(method))
}

func (t *Tracker) Login(ctx context.Context, method string) {
	t.send(ctx, normalize.Login(method))
}

func (t *Tracker) MenuClick(ctx context.Context, section, option string) {
	t.send(ctx, normalize.MenuClick(section, option))
}

func (t *Tracker) FooterClick(ctx context.Context, section, option string) {
	t.send(ctx, normalize.FooterClick(section, option))
}

func (t *Tracker) TripTypeClick(ctx context.Context, tripType, location string) {
	t.send(ctx, normalize.TripTypeClick(tripType, location))
}

func (t *Tracker) ContactClick(ctx context.Context, method, location string) {
	t.send(ctx, normalize.ContactClick(method, location))
}

func (t *Tracker) LogoClick(ctx context.Context, location string) {
	t.send(ctx, normalize.LogoClick(location))
}

func (t *Tracker) LeadGenerated(ctx context.Context, formName, leadType string) {
	t.send(ctx, normalize.LeadGenerated(formName, leadType))
}

func (t *Tracker) Search(ctx context.Context, p normalize.SearchParams) {
	t.send(ctx, normalize.Search(p))
}

func (t *Tracker) Filter(ctx context.Context, name, value string) {
	t.send(ctx, normalize.Filter(name, value))
}

func (t *Tracker) FilterOrder(ctx context.Context, orderBy string) {
	t.send(ctx, normalize.FilterOrder(orderBy))
}

func (t *Tracker) FileDownload(ctx context.Context, fileName, extension, linkURL string) {
	t.send(ctx, normalize.FileDownload(fileName, extension, linkURL))
}

func (t *Tracker) Share(ctx context.Context, method, contentType, itemID string) {
	t.send(ctx, normalize.Share(method, contentType, itemID))
}
