/*
Command cutout downloads an SDSS finding chart image around a sky
position.

  Usage: cutout [options] <ra> <dec> <outfile>
    -height=512: image height in pixels
    -opt="": SkyServer drawing options, eg G grid, L label
    -scale=0.4: arcsec per pixel
    -v=false: display version and copyright
    -width=512: image width in pixels

Coordinates are J2000.  Right ascension may be given as decimal degrees
in [0,360) or as sexagesimal hours hh:mm:ss.s.  Declination may be
given as decimal degrees in [-90,90] or as sexagesimal degrees
±dd:mm:ss.s.

The image is fetched from the SkyServer ImgCutout service and written
to <outfile> as JPEG.  The parsed position and the request URL are
echoed to standard output, so a surprising image can be checked against
the coordinates actually sent.

Positions outside the SDSS footprint are not an error at the service;
it answers with an HTML page instead of an image.  cutout detects this
and reports it as an error rather than saving the page.

Examples:

  cutout 10:00:20.99 +02:12:56.0 target.jpg
  cutout -scale 0.2 -opt GL 150.087 2.215 target.jpg

For the service documentation see
https://skyserver.sdss.org/dr16/en/help/docs/api.aspx
*/
package main
