package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteport"
)

const headingSelector = "h2, h3"

// ExtractSections groups the lists that follow each h2 or h3 heading into
// named sections. A heading owns every sibling up to the next h2 or h3;
// only ul, ol and dl siblings contribute items. Headings without items
// are dropped.
func ExtractSections(doc *goquery.Document) []siteport.Section {
	var sections []siteport.Section
	doc.Find(headingSelector).Each(func(_ int, heading *goquery.Selection) {
		title := text(heading)
		if title == "" {
			return
		}
		var items []siteport.SectionItem
		for sib := heading.Next(); sib.Length() > 0 && !sib.Is(headingSelector); sib = sib.Next() {
			switch {
			case sib.Is("ul, ol"):
				items = append(items, listItems(sib)...)
			case sib.Is("dl"):
				items = append(items, definitionItems(sib)...)
			}
		}
		if len(items) > 0 {
			sections = append(sections, siteport.Section{Title: title, Items: items})
		}
	})
	return sections
}

func listItems(list *goquery.Selection) []siteport.SectionItem {
	var items []siteport.SectionItem
	list.Find("li").Each(func(_ int, li *goquery.Selection) {
		anchor := li.Find("a").First()
		name := text(li)
		if anchor.Length() > 0 {
			name = text(anchor)
		}
		if name == "" {
			return
		}
		items = append(items, siteport.SectionItem{
			Name:        name,
			Link:        anchor.AttrOr("href", ""),
			Description: text(li.Find("p, span.description, .desc").First()),
		})
	})
	return items
}

func definitionItems(list *goquery.Selection) []siteport.SectionItem {
	var items []siteport.SectionItem
	list.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		name := text(dt)
		if name == "" {
			return
		}
		dd := dt.NextFiltered("dd")
		anchor := dt.Find("a").First()
		if anchor.Length() == 0 {
			anchor = dd.Find("a").First()
		}
		items = append(items, siteport.SectionItem{
			Name:        name,
			Link:        anchor.AttrOr("href", ""),
			Description: text(dd),
		})
	})
	return items
}
