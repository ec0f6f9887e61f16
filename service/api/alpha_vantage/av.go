package alpha_vantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"maps"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	e "stockreport/data/extensions"
	m "stockreport/data/models"
	c "stockreport/service/api"
)

// public
const (
	HostDefault = "www.alphavantage.co"

	OutputSizeCompact = "compact"
	OutputSizeFull    = "full"
)

// private
const (
	// default query parameters
	defaultOutputSize = OutputSizeCompact
	defaultDataType   = "json"

	// api request elements
	query      = "query"
	symbol     = "symbol"
	function   = "function"
	outputSize = "outputsize"

	// response elements
	metaDataKey     = "Meta Data"
	errorMessageKey = "Error Message"
	noteKey         = "Note"
	informationKey  = "Information"
)

var (
	timeSeriesDateFormats = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
	}

	// struct field -> suffix of the json key, ie "1. open"
	priceResultKeys = map[string]string{
		"Open":  ". open",
		"High":  ". high",
		"Low":   ". low",
		"Close": ". close",
	}

	volumeResultKey = ". volume"
)

type AlphaVantageClient struct {
	*c.Client
}

func GetClient(apiKey string, timeout time.Duration) *AlphaVantageClient {
	return &AlphaVantageClient{
		c.ClientFactory(HostDefault, apiKey, timeout),
	}
}

// GetTimeSeries pulls one symbol's series and maps every bar to a PriceRecord.
// https://www.alphavantage.co/documentation/#daily
func (avc *AlphaVantageClient) GetTimeSeries(ctx context.Context, timeSeries TimeSeries, ticker string, size string) (*m.DailySeriesResult, error) {
	if avc == nil || avc.Client == nil {
		return nil, fmt.Errorf("alpha vantage client has not been set")
	}
	if avc.ApiKey == "" {
		return nil, fmt.Errorf("alpha vantage api key has not been set")
	}
	if size == "" {
		size = defaultOutputSize
	}

	endpoint := avc.buildRequestPath(map[string]string{
		function:   timeSeries.Function(),
		symbol:     ticker,
		outputSize: size,
	})

	response, err := avc.Connection.Request(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("error requesting %s for %s: %w", timeSeries.Function(), ticker, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpha vantage returned status %d for %s", response.StatusCode, ticker)
	}

	raw, err := parseRawJson(response.Body)
	if err != nil {
		return nil, err
	}

	metaData, err := parseMetaData(raw)
	if err != nil {
		return nil, err
	}

	records, err := parseTimeSeriesDataResult(raw, timeSeries.TimeSeriesKey(), metaData.Symbol)
	if err != nil {
		return nil, err
	}

	return &m.DailySeriesResult{
		Metadata: metaData,
		Records:  records,
	}, nil
}

func (avc *AlphaVantageClient) buildRequestPath(params map[string]string) *url.URL {
	// build our URL
	endpoint := &url.URL{}
	endpoint.Path = query

	// base parameters
	query := endpoint.Query()
	query.Set("apikey", avc.ApiKey)
	query.Set("datatype", defaultDataType)

	// additional parameters
	for key, value := range params {
		query.Set(key, value)
	}

	endpoint.RawQuery = query.Encode()

	return endpoint
}

func parseRawJson(reader io.Reader) (raw map[string]json.RawMessage, err error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	// converting to a <string, raw message> map
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	// errors and rate limits come back as 200 with a single message
	if _, ok := raw[metaDataKey]; !ok {
		for _, key := range []string{errorMessageKey, noteKey, informationKey} {
			if msg, ok := raw[key]; ok {
				var text string
				_ = json.Unmarshal(msg, &text)
				return nil, fmt.Errorf("alpha vantage: %s", text)
			}
		}
		return nil, fmt.Errorf("alpha vantage response has no %q", metaDataKey)
	}

	return
}

func parseMetaData(raw map[string]json.RawMessage) (*m.DailySeriesMetadata, error) {
	var metadataElements map[string]string
	if err := json.Unmarshal(raw[metaDataKey], &metadataElements); err != nil {
		return nil, fmt.Errorf("error unmarshaling meta data: %w", err)
	}

	metaDataKeys := slices.Collect(maps.Keys(metadataElements))
	find := func(suffix string) (string, bool) {
		key, err := e.FilterSingle(metaDataKeys, func(s string) bool { return strings.HasSuffix(s, suffix) })
		return metadataElements[key], err == nil
	}

	sym, ok := find(". Symbol")
	if !ok {
		return nil, fmt.Errorf("error extracting symbol for meta data")
	}

	tz, ok := find(". Time Zone")
	if !ok {
		return nil, fmt.Errorf("error extracting time zone for meta data")
	}

	timeZone, err := getTimeZone(tz)
	if err != nil {
		return nil, fmt.Errorf("error converting time zone key %s, to time.Location: %w", tz, err)
	}

	lr, ok := find(". Last Refreshed")
	if !ok {
		return nil, fmt.Errorf("error extracting last refreshed date")
	}

	lastRefreshed, err := parseDate(lr, timeZone)
	if err != nil {
		return nil, fmt.Errorf("error parsing last refreshed date")
	}

	res := m.DailySeriesMetadata{
		Symbol:        strings.ToUpper(sym),
		LastRefreshed: lastRefreshed,
		TimeZone:      tz,
	}
	if info, ok := find(". Information"); ok {
		res.Information = null.StringFrom(info)
	}
	if size, ok := find(". Output Size"); ok {
		res.OutputSize = null.StringFrom(size)
	}

	return &res, nil
}

func parseTimeSeriesDataResult(raw map[string]json.RawMessage, key string, ticker string) ([]m.PriceRecord, error) {
	var timeSeriesElements map[string]map[string]string
	if err := json.Unmarshal(raw[key], &timeSeriesElements); err != nil {
		return nil, fmt.Errorf("error unmarshaling time series %q: %w", key, err)
	}

	// populate the lookups
	var firstValue map[string]string
	for _, v := range timeSeriesElements {
		firstValue = v
		break
	}
	if firstValue == nil {
		return []m.PriceRecord{}, nil
	}

	priceLookup, err := getLookupKey(priceResultKeys, firstValue)
	if err != nil {
		return nil, err
	}

	volumeKey, _ := e.FilterSingle(slices.Collect(maps.Keys(firstValue)), func(s string) bool {
		return strings.HasSuffix(strings.ToLower(s), volumeResultKey)
	})

	records := make([]m.PriceRecord, 0, len(timeSeriesElements))
	for timeSeriesKey, timeSeriesValue := range timeSeriesElements {
		// bars are whole trading days, keep the calendar date only
		date, err := parseDate(timeSeriesKey, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("error converting date from string to time.Time: %w", err)
		}

		record := m.PriceRecord{
			Symbol: ticker,
			Date:   time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
			Volume: parseInt(timeSeriesValue[volumeKey]),
		}
		if err := parsePrices(&record, timeSeriesValue, priceLookup); err != nil {
			return nil, fmt.Errorf("error parsing prices: %w", err)
		}

		records = append(records, record)
	}

	slices.SortFunc(records, func(a, b m.PriceRecord) int { return a.Date.Compare(b.Date) })
	return records, nil
}

func parsePrices(record *m.PriceRecord, value, lookup map[string]string) error {
	v := reflect.ValueOf(record).Elem()
	for jsonKey, structAttribute := range lookup {
		field := v.FieldByName(structAttribute)
		if !field.IsValid() {
			return fmt.Errorf("field %s does not exist", structAttribute)
		}
		if !field.CanSet() {
			return fmt.Errorf("field %s cannot be set", structAttribute)
		}

		field.Set(reflect.ValueOf(parseFloat(value[jsonKey])))
	}
	return nil
}

func getLookupKey(expectedKeys, values map[string]string) (map[string]string, error) {
	res := make(map[string]string)
	responseValueHeaders := slices.Collect(maps.Keys(values))

	for key, value := range expectedKeys {
		f := func(s string) bool {
			return strings.HasSuffix(strings.ToLower(s), strings.ToLower(value))
		}
		if jsonKey, err := e.FilterSingle(responseValueHeaders, f); err == nil {
			res[jsonKey] = key
		}
	}

	if len(res) == 0 {
		return nil, fmt.Errorf("error generating key value map from av response object. Available headers: %v", responseValueHeaders)
	}

	return res, nil
}

func getTimeZone(location string) (*time.Location, error) {
	var loc string
	switch strings.ToUpper(location) {
	case "US/EASTERN":
		loc = "America/New_York"
	case "ASIA/KOLKATA", "ASIA/CALCUTTA":
		loc = "Asia/Kolkata"
	default:
		log.Printf("default time zone hit, %s is not recognized", location)
		return time.UTC, nil
	}

	res, err := time.LoadLocation(loc)
	if err != nil {
		return nil, fmt.Errorf("error parsing time zone %s in time.LoadLocation", loc)
	}

	return res, nil
}

func parseDate(dateString string, location *time.Location) (time.Time, error) {
	for _, format := range timeSeriesDateFormats {
		t, err := time.ParseInLocation(format, dateString, location)
		if err != nil {
			continue
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("error converting date %s to time.Time", dateString)
}

func parseFloat(val string) null.Float {
	if val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil && e.IsFinite(f) {
			return null.FloatFrom(f)
		}
	}
	return null.Float{}
}

func parseInt(val string) null.Int {
	if val == "" {
		return null.Int{}
	}
	if i, err := strconv.ParseInt(val, 10, 64); err == nil {
		return null.IntFrom(i)
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil && e.FitsInt64(f) {
		return null.IntFrom(int64(f))
	}
	return null.Int{}
}
