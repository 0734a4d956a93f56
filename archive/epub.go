package archive

import (
	"archive/zip"
	"fmt"
	"net/url"
	"path"
	"slices"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

const (
	containerName = "META-INF/container.xml"
	cssMediaType  = "text/css"
)

// manifestStylesheets looks for EPUB container description and, when found,
// returns full names of all stylesheets listed in manifests of the packages
// it references. Duplicates are removed, manifest order is kept.
func manifestStylesheets(files map[string]*zip.File) ([]string, bool, error) {
	cf, ok := files[containerName]
	if !ok {
		return nil, false, nil
	}

	container, err := readXML(cf)
	if err != nil {
		return nil, true, err
	}

	var names []string
	for _, rootfile := range container.FindElements("//rootfiles/rootfile") {
		opfName := rootfile.SelectAttrValue("full-path", "")
		if opfName == "" {
			continue
		}
		of, ok := files[opfName]
		if !ok {
			return nil, true, fmt.Errorf("package document %q is missing", opfName)
		}
		opf, err := readXML(of)
		if err != nil {
			return nil, true, err
		}
		for _, item := range opf.FindElements("//manifest/item") {
			if item.SelectAttrValue("media-type", "") != cssMediaType {
				continue
			}
			href, err := url.PathUnescape(item.SelectAttrValue("href", ""))
			if err != nil || href == "" {
				continue
			}
			name := path.Join(path.Dir(opfName), href)
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	return names, true, nil
}

func readXML(f *zip.File) (*etree.Document, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open %q: %w", f.Name, err)
	}
	defer rc.Close()

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("unable to parse %q: %w", f.Name, err)
	}
	return doc, nil
}
