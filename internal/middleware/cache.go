package middleware

import (
    "bytes"
    "context"
    "encoding/binary"
    "encoding/hex"
    "encoding/json"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "golang.org/x/crypto/blake2b"

    "github.com/iliyamo/cinemood/internal/config"
    "github.com/iliyamo/cinemood/internal/logging"
    "github.com/iliyamo/cinemood/internal/metrics"
)

// ResponseCache stores successful GET responses in Redis, grouped in
// namespaces.  Every namespace has a version counter that is part of each
// key, so Invalidate drops a whole namespace with one INCR and the stale
// entries simply expire.
type ResponseCache struct {
    cfg config.CacheConfig
    rdb *redis.Client
}

// NewResponseCache returns a cache.  A nil client or a disabled config
// yields a cache whose middleware passes through.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) *ResponseCache {
    if cfg.TTL <= 0 {
        cfg.TTL = 30 * time.Second
    }
    return &ResponseCache{cfg: cfg, rdb: rdb}
}

func (rc *ResponseCache) enabled() bool {
    return rc != nil && rc.cfg.Enabled && rc.rdb != nil
}

func (rc *ResponseCache) versionKey(namespace string) string {
    return rc.cfg.Prefix + ":ns:" + namespace
}

// Invalidate bumps the namespace version.
func (rc *ResponseCache) Invalidate(ctx context.Context, namespace string) error {
    if !rc.enabled() {
        return nil
    }
    return rc.rdb.Incr(ctx, rc.versionKey(namespace)).Err()
}

func (rc *ResponseCache) version(ctx context.Context, namespace string) (int64, error) {
    v, err := rc.rdb.Get(ctx, rc.versionKey(namespace)).Int64()
    if errors.Is(err, redis.Nil) {
        return 0, nil
    }
    return v, err
}

// Middleware caches responses of the wrapped routes under namespace.
func (rc *ResponseCache) Middleware(namespace string) echo.MiddlewareFunc {
    if !rc.enabled() {
        return passThrough
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !rc.cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }
            ctx := c.Request().Context()
            ver, err := rc.version(ctx, namespace)
            if err != nil {
                logging.Ctx(ctx).Warn().Err(err).Str("namespace", namespace).Msg("cache: version lookup failed")
                return next(c)
            }
            key := cacheKey(rc.cfg, namespace, ver, c)

            if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    metrics.RecordCacheLookup(true)
                    for k, vals := range hdr {
                        if strings.EqualFold(k, echo.HeaderContentLength) || strings.EqualFold(k, "X-Request-Id") {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    _, _ = c.Response().Write(body)
                    return nil
                }
            }
            metrics.RecordCacheLookup(false)

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(rc.cfg.MaxBodyBytes)}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.truncated {
                return nil
            }
            payload, err := encodePayload(cw.status, c.Response().Header().Clone(), cw.buf.Bytes())
            if err != nil {
                return nil
            }
            sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
            defer cancel()
            if err := rc.rdb.SetEx(sctx, key, payload, rc.cfg.TTL).Err(); err != nil {
                logging.Ctx(ctx).Warn().Err(err).Msg("cache: store failed")
            }
            return nil
        }
    }
}

// captureWriter tees the response body into buf, up to limit bytes.
type captureWriter struct {
    http.ResponseWriter
    status    int
    buf       bytes.Buffer
    limit     int64
    truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    if !cw.truncated {
        if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
            cw.truncated = true
            cw.buf.Reset()
        } else {
            cw.buf.Write(b)
        }
    }
    return cw.ResponseWriter.Write(b)
}

// cacheKey is prefix:namespace:v<version>:<blake2b of the request parts>.
func cacheKey(cfg config.CacheConfig, namespace string, version int64, c echo.Context) string {
    r := c.Request()
    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = []string{"route", c.Path()}
    case "method_route":
        parts = []string{"method", r.Method, "route", c.Path()}
    case "method_route_query":
        parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
    default:
        parts = []string{"route", c.Path(), "q", r.URL.RawQuery}
    }
    // Path params are part of the resource, not the route pattern.
    for _, name := range c.ParamNames() {
        parts = append(parts, "p", name, c.Param(name))
    }
    sum := blake2b.Sum256([]byte(strings.Join(parts, "\x00")))
    return cfg.Prefix + ":" + namespace + ":v" + strconv.FormatInt(version, 10) + ":" + hex.EncodeToString(sum[:])
}

// encodePayload packs [4 status][4 header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    hdrJSON, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdrJSON)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    copy(out[8:], hdrJSON)
    copy(out[8+len(hdrJSON):], body)
    return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return 0, nil, nil, false
    }
    header = make(http.Header)
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, header, bs[8+hlen:], true
}
