package spoke

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Result is the outcome of an accepted request. ImmcID is the permanent id
// Spoke assigns to the order.
type Result struct {
	ImmcID int `json:"immc_id"`
}

// ParseReply interprets a reply document. A result of Success yields the
// order's immc_id; any other result yields an *APIError classified from the
// reply message.
func ParseReply(body []byte) (Result, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	result := doc.FindElement("//result")
	if result == nil {
		return Result{}, fmt.Errorf("%w: no result element", ErrMalformedReply)
	}
	if strings.TrimSpace(result.Text()) != "Success" {
		var msg string
		if m := doc.FindElement("//message"); m != nil {
			msg = strings.TrimSpace(m.Text())
		}
		return Result{}, newAPIError(msg)
	}

	idElem := doc.FindElement("//immc_id")
	if idElem == nil {
		return Result{}, fmt.Errorf("%w: success without immc_id", ErrMalformedReply)
	}
	id, err := strconv.Atoi(strings.TrimSpace(idElem.Text()))
	if err != nil {
		return Result{}, fmt.Errorf("%w: immc_id: %v", ErrMalformedReply, err)
	}
	return Result{ImmcID: id}, nil
}
