// Package confluence implements the content store over the Confluence
// attachment REST API. Store identifiers have the form 'pageID/filename',
// naming an attachment on a page.
package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jgwest/htmldiff-cli/logging"
	"github.com/jgwest/htmldiff-cli/model"
)

type Client struct {
	baseURL string
	client  *http.Client
	debug   bool
	log     zerolog.Logger
}

func NewClient(baseURL string, debug bool) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		debug:   debug,
		log:     logging.Component("confluence"),
	}
}

// Fetch downloads the attachment named by id into destPath.
func (c *Client) Fetch(ctx context.Context, id string, destPath string, cred model.Credential) error {

	pageID, filename, err := splitID(id)
	if err != nil {
		return err
	}

	attachment, err := c.lookupAttachment(ctx, pageID, filename, cred)
	if err != nil {
		return err
	}

	if attachment == nil {
		return fmt.Errorf("no attachment '%s' found on page %s", filename, pageID)
	}

	downloadURL := c.baseURL + attachment.Links.Download

	if c.debug {
		c.log.Debug().Str("url", downloadURL).Msg("downloading attachment")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(cred.Username, cred.Password)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("unable to download attachment '%s': %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unable to download attachment '%s': HTTP %d", id, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("unable to write '%s': %w", destPath, err)
	}

	return nil
}

// Publish uploads the file at sourcePath as the attachment named by id,
// creating it or updating an existing attachment of the same name.
func (c *Client) Publish(ctx context.Context, id string, sourcePath string, cred model.Credential) error {

	pageID, filename, err := splitID(id)
	if err != nil {
		return err
	}

	existing, err := c.lookupAttachment(ctx, pageID, filename, cred)
	if err != nil {
		return err
	}

	uploadURL := fmt.Sprintf("%s/rest/api/content/%s/child/attachment", c.baseURL, pageID)
	if existing != nil {
		uploadURL = fmt.Sprintf("%s/rest/api/content/%s/child/attachment/%s/data", c.baseURL, pageID, existing.ID)
	}

	if c.debug {
		c.log.Debug().Str("url", uploadURL).Msg("uploading attachment")
	}

	body, contentType, err := multipartFileBody(sourcePath, filename)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(cred.Username, cred.Password)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Atlassian-Token", "nocheck")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("unable to publish attachment '%s': %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unable to publish attachment '%s': HTTP %d", id, resp.StatusCode)
	}

	return nil
}

type attachment struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Links struct {
		Download string `json:"download"`
	} `json:"_links"`
}

// lookupAttachment returns the attachment with the given filename, or nil if
// the page has no attachment of that name.
func (c *Client) lookupAttachment(ctx context.Context, pageID string, filename string, cred model.Credential) (*attachment, error) {

	queryURL := fmt.Sprintf("%s/rest/api/content/%s/child/attachment?filename=%s",
		c.baseURL, pageID, url.QueryEscape(filename))

	if c.debug {
		c.log.Debug().Str("url", queryURL).Msg("querying attachments")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(cred.Username, cred.Password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to query attachments of page %s: %w", pageID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to query attachments of page %s: HTTP %d", pageID, resp.StatusCode)
	}

	list := struct {
		Results []attachment `json:"results"`
	}{}

	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("unable to parse attachment list for page %s: %w", pageID, err)
	}

	if len(list.Results) == 0 {
		return nil, nil
	}

	return &list.Results[0], nil
}

func multipartFileBody(sourcePath string, filename string) (io.Reader, string, error) {

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, "", err
	}

	var buffer strings.Builder
	writer := multipart.NewWriter(&buffer)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}

	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}

	if err := writer.WriteField("minorEdit", "true"); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return strings.NewReader(buffer.String()), writer.FormDataContentType(), nil
}

func splitID(id string) (pageID string, filename string, err error) {

	slash := strings.Index(id, "/")
	if slash <= 0 || slash == len(id)-1 {
		return "", "", fmt.Errorf("invalid content identifier '%s': expected pageID/filename", id)
	}

	return id[:slash], path.Base(id[slash+1:]), nil
}
